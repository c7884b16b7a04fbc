package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"github.com/dukkan-shop/dukkan-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category name already exists")
	ErrInvalidSchema      = errors.New("invalid category attribute schema")
)

type AttributeInput struct {
	Name        string   `json:"name" binding:"required"`
	Label       string   `json:"label" binding:"required"`
	Kind        string   `json:"kind" binding:"required"`
	Options     []string `json:"options"`
	Placeholder string   `json:"placeholder"`
	Tooltip     string   `json:"tooltip"`
}

type CategoryInput struct {
	Name       string           `json:"name" binding:"required"`
	NameAr     string           `json:"name_ar"`
	Attributes []AttributeInput `json:"attributes"`
}

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	CreateCategory(input CategoryInput) (*model.Category, error)
	UpdateCategory(id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(id uint) error
	SchemaSource() form.SchemaSource
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	logger.Debug("Listing categories", nil)

	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}

	logger.Info("Categories listed", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"category_id": id,
			})
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.Category, error) {
	logger.Info("Creating new category", map[string]interface{}{
		"name":            input.Name,
		"attribute_count": len(input.Attributes),
	})

	attributes, err := buildAttributes(input.Attributes)
	if err != nil {
		logger.Warn("Category schema rejected", map[string]interface{}{
			"name":  input.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	existing, err := s.categoryRepo.FindByName(input.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing category", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryNameExists
	}

	category := &model.Category{
		Name:       input.Name,
		NameAr:     input.NameAr,
		Attributes: attributes,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *categoryService) UpdateCategory(id uint, input CategoryInput) (*model.Category, error) {
	logger.Info("Updating category", map[string]interface{}{
		"category_id": id,
		"name":        input.Name,
	})

	attributes, err := buildAttributes(input.Attributes)
	if err != nil {
		return nil, err
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.NameAr != "" {
		category.NameAr = input.NameAr
	}
	category.Attributes = nil
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.ReplaceAttributes(id, attributes); err != nil {
		logger.Error("Failed to replace category attributes", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	s.invalidateSchemaCache(id)
	return s.GetCategory(id)
}

func (s *categoryService) DeleteCategory(id uint) error {
	logger.Info("Deleting category", map[string]interface{}{
		"category_id": id,
	})

	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		logger.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	s.invalidateSchemaCache(id)
	return nil
}

func (s *categoryService) invalidateSchemaCache(id uint) {
	if err := redis.InvalidateCategorySchema(context.Background(), id); err != nil {
		logger.Warn("Failed to invalidate cached category schema", map[string]interface{}{
			"category_id": id,
			"error":       err.Error(),
		})
	}
}

// buildAttributes validates attribute inputs against the schema
// invariants before anything reaches the database.
func buildAttributes(inputs []AttributeInput) ([]model.CategoryAttribute, error) {
	defs := make([]form.AttributeDefinition, 0, len(inputs))
	attributes := make([]model.CategoryAttribute, 0, len(inputs))
	for i, in := range inputs {
		kind, err := form.ParseFieldKind(in.Kind)
		if err != nil {
			return nil, ErrInvalidSchema
		}
		defs = append(defs, form.AttributeDefinition{
			Name:    in.Name,
			Label:   in.Label,
			Kind:    kind,
			Options: in.Options,
		})
		attributes = append(attributes, model.CategoryAttribute{
			Name:        in.Name,
			Label:       in.Label,
			Kind:        in.Kind,
			Options:     model.StringList(in.Options),
			Placeholder: in.Placeholder,
			Tooltip:     in.Tooltip,
			SortOrder:   i,
		})
	}

	schema := form.CategorySchema{Attributes: defs}
	if err := schema.Validate(); err != nil {
		return nil, ErrInvalidSchema
	}
	return attributes, nil
}

// CategorySchemaOf converts a stored category into the form engine's
// schema shape, dropping attributes whose kind no longer parses.
func CategorySchemaOf(category *model.Category) *form.CategorySchema {
	schema := &form.CategorySchema{
		CategoryID:   category.ID,
		CategoryName: category.Name,
	}
	for _, attr := range category.Attributes {
		kind, err := form.ParseFieldKind(attr.Kind)
		if err != nil {
			logger.Warn("Stored attribute has unsupported kind", map[string]interface{}{
				"category_id": category.ID,
				"attribute":   attr.Name,
				"kind":        attr.Kind,
			})
			continue
		}
		schema.Attributes = append(schema.Attributes, form.AttributeDefinition{
			Name:        attr.Name,
			Label:       attr.Label,
			Kind:        kind,
			Options:     []string(attr.Options),
			Placeholder: attr.Placeholder,
			Tooltip:     attr.Tooltip,
		})
	}
	return schema
}

// SchemaSource exposes the catalog as the form engine's schema source.
// Precedence is fixed: cache, then database, then the static fallback
// table. The fallback is consulted only when the catalog cannot serve
// the schema, and its results are never written back to the cache.
func (s *categoryService) SchemaSource() form.SchemaSource {
	return &catalogSchemaSource{categoryRepo: s.categoryRepo}
}

type catalogSchemaSource struct {
	categoryRepo repository.CategoryRepository
}

func (src *catalogSchemaSource) Resolve(ctx context.Context, categoryID uint, categoryName string) (*form.CategorySchema, error) {
	if cached, err := redis.GetCategorySchema(ctx, categoryID); err == nil && cached != nil {
		var schema form.CategorySchema
		if err := json.Unmarshal(cached, &schema); err == nil {
			logger.Debug("Category schema served from cache", map[string]interface{}{
				"category_id": categoryID,
			})
			return &schema, nil
		}
		// a corrupt entry falls through to the database
	}

	category, err := src.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return src.fallback(categoryID, categoryName, form.ErrSchemaNotFound)
		}
		return src.fallback(categoryID, categoryName, err)
	}

	schema := CategorySchemaOf(category)
	if payload, err := json.Marshal(schema); err == nil {
		if err := redis.CacheCategorySchema(ctx, categoryID, payload, 0); err != nil {
			logger.Debug("Failed to cache category schema", map[string]interface{}{
				"category_id": categoryID,
				"error":       err.Error(),
			})
		}
	}
	return schema, nil
}

func (src *catalogSchemaSource) fallback(categoryID uint, categoryName string, cause error) (*form.CategorySchema, error) {
	schema, ok := form.FallbackSchemaByName(categoryName)
	if !ok {
		return nil, cause
	}

	logger.Warn("Serving category schema from static fallback", map[string]interface{}{
		"category_id": categoryID,
		"category":    categoryName,
		"cause":       cause.Error(),
	})
	out := *schema
	out.CategoryID = categoryID
	return &out, nil
}
