package repository

import (
	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	Update(category *model.Category) error
	ReplaceAttributes(categoryID uint, attributes []model.CategoryAttribute) error
	Delete(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name":            category.Name,
		"attribute_count": len(category.Attributes),
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return nil
}

func (r *categoryRepository) attributesPreload(query *gorm.DB) *gorm.DB {
	return query.Preload("Attributes", func(db *gorm.DB) *gorm.DB {
		return db.Order("category_attributes.sort_order ASC")
	})
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.attributesPreload(r.db.Model(&model.Category{})).
		Order("categories.name ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}

	logger.Debug("Categories listed", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.attributesPreload(r.db).First(&category, id).Error
	if err != nil {
		logger.Error("Failed to find category by ID in database", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.attributesPreload(r.db).
		Where("name = ?", name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

// ReplaceAttributes swaps a category's attribute list in one
// transaction, so readers never see a half-replaced schema.
func (r *categoryRepository) ReplaceAttributes(categoryID uint, attributes []model.CategoryAttribute) error {
	logger.Debug("Replacing category attributes in database", map[string]interface{}{
		"category_id":     categoryID,
		"attribute_count": len(attributes),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).
			Delete(&model.CategoryAttribute{}).Error; err != nil {
			return err
		}
		for i := range attributes {
			attributes[i].ID = 0
			attributes[i].CategoryID = categoryID
			attributes[i].SortOrder = i
		}
		if len(attributes) == 0 {
			return nil
		}
		return tx.Create(&attributes).Error
	})
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).
			Delete(&model.CategoryAttribute{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, id).Error
	})
}
