package db

import (
	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.CategoryAttribute{},
		&model.Product{},
		&model.Brand{},
		&model.StockAlert{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedCategories()
}

// seedCategories creates the default categories from the static fallback
// schema table so a fresh install can add products immediately.
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding default categories from fallback schema table...")

	inserted := 0
	for _, schema := range form.FallbackSchemas() {
		category := model.Category{
			Name:   schema.CategoryName,
			NameAr: form.FallbackArabicName(schema.CategoryName),
		}
		for i, attr := range schema.Attributes {
			category.Attributes = append(category.Attributes, model.CategoryAttribute{
				Name:        attr.Name,
				Label:       attr.Label,
				Kind:        string(attr.Kind),
				Options:     model.StringList(attr.Options),
				Placeholder: attr.Placeholder,
				Tooltip:     attr.Tooltip,
				SortOrder:   i,
			})
		}
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to seed category", err, map[string]interface{}{
				"name": category.Name,
			})
			return err
		}
		inserted++
	}

	logger.Info("Default categories seeded", map[string]interface{}{
		"count": inserted,
	})
	return nil
}
