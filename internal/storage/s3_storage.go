package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dukkan-shop/dukkan-backend/config"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// S3Storage persists media objects and hands back their public URLs.
// It implements form.Uploader for the product form's staged media.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
	folder  string
}

func NewS3Storage(cfg *config.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// Static credentials when provided, default chain otherwise
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{
				Region: cfg.Region,
			}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL,
		folder:  "products",
	}
}

// UploadObject stores one object under a generated key and returns its
// public URL.
func (s *S3Storage) UploadObject(ctx context.Context, fileName, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s%s", s.folder, uuid.New().String(), filepath.Ext(fileName))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fileName, err)
	}

	logger.Debug("Object uploaded to S3", map[string]interface{}{
		"key":    key,
		"bucket": s.bucket,
	})
	return s.fileURL(key), nil
}

// Upload transmits a batch of staged form assets and returns their
// persisted URLs. The batch fails as a whole on the first transport
// error; the form engine keeps its staged files in that case.
func (s *S3Storage) Upload(ctx context.Context, assets []*form.StagedAsset) ([]string, error) {
	urls := make([]string, 0, len(assets))
	for _, asset := range assets {
		file, err := os.Open(asset.PreviewPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read staged file %s: %w", asset.FileName, err)
		}

		url, err := s.UploadObject(ctx, asset.FileName, asset.ContentType, file)
		file.Close()
		if err != nil {
			logger.Error("Media batch upload failed", err, map[string]interface{}{
				"file":     asset.FileName,
				"uploaded": len(urls),
				"total":    len(assets),
			})
			return nil, err
		}
		urls = append(urls, url)
	}

	logger.Info("Media batch uploaded", map[string]interface{}{
		"count": len(urls),
	})
	return urls, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
