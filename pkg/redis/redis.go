package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/dukkan-shop/dukkan-backend/config"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var (
	client    *redis.Client
	schemaTTL = 15 * time.Minute
)

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	if cfg.SchemaTTL > 0 {
		schemaTTL = cfg.SchemaTTL
	}

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

func schemaKey(categoryID uint) string {
	return fmt.Sprintf("schema:category:%d", categoryID)
}

// CacheCategorySchema stores a serialized category schema. A zero ttl
// uses the configured default.
func CacheCategorySchema(ctx context.Context, categoryID uint, payload []byte, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = schemaTTL
	}
	if err := client.Set(ctx, schemaKey(categoryID), payload, ttl).Err(); err != nil {
		logger.Error("Failed to cache category schema", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return err
	}
	return nil
}

// GetCategorySchema returns the cached schema payload, or (nil, nil) on a miss
func GetCategorySchema(ctx context.Context, categoryID uint) ([]byte, error) {
	if client == nil {
		return nil, nil
	}
	payload, err := client.Get(ctx, schemaKey(categoryID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read cached category schema", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}
	return payload, nil
}

// InvalidateCategorySchema drops the cached schema after a category mutation
func InvalidateCategorySchema(ctx context.Context, categoryID uint) error {
	if client == nil {
		return nil
	}
	if err := client.Del(ctx, schemaKey(categoryID)).Err(); err != nil {
		logger.Error("Failed to invalidate cached category schema", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return err
	}
	logger.Debug("Cached category schema invalidated", map[string]interface{}{
		"category_id": categoryID,
	})
	return nil
}
