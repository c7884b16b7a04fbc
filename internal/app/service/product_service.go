package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNumberExists = errors.New("product number already exists")
)

type ProductListOptions struct {
	CategoryID    *uint
	Brand         string
	Search        string
	Featured      *bool
	Trend         *bool
	Sort          repository.ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, payload *form.ProductPayload) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, payload *form.ProductPayload) (*model.Product, error)
	DeleteProduct(id uint) error
	ToggleFeatured(id uint) (*model.Product, error)
	ToggleTrend(id uint) (*model.Product, error)
	AddTrends(ids []uint) ([]model.Product, error)
	ExportProducts() (*excelize.File, error)

	// SubmitProduct lets the form engine persist a completed draft
	SubmitProduct(ctx context.Context, payload *form.ProductPayload) (uint, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category_id": opts.CategoryID,
		"brand":       opts.Brand,
		"search":      opts.Search,
		"limit":       opts.Limit,
		"offset":      opts.Offset,
	})

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		CategoryID:    opts.CategoryID,
		Brand:         opts.Brand,
		Search:        opts.Search,
		Featured:      opts.Featured,
		Trend:         opts.Trend,
		SortBy:        opts.Sort,
		SortAscending: opts.SortAscending,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, payload *form.ProductPayload) (*model.Product, error) {
	logger.Info("Creating new product", map[string]interface{}{
		"product_number": payload.ProductNumber,
		"name":           payload.ProductName,
		"category_id":    payload.CategoryID,
	})

	if err := s.checkUniqueness(payload, 0); err != nil {
		return nil, err
	}

	product := productFromPayload(payload)
	if err := s.resolveCategory(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"product_number": payload.ProductNumber,
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id":     product.ID,
		"product_number": product.ProductNumber,
	})
	return product, nil
}

// SubmitProduct adapts CreateProduct to the form engine's sink contract
func (s *productService) SubmitProduct(ctx context.Context, payload *form.ProductPayload) (uint, error) {
	product, err := s.CreateProduct(ctx, payload)
	if err != nil {
		return 0, err
	}
	return product.ID, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, payload *form.ProductPayload) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id":     id,
		"product_number": payload.ProductNumber,
	})

	existing, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(payload, id); err != nil {
		return nil, err
	}

	updated := productFromPayload(payload)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.IsTrend = existing.IsTrend
	if err := s.resolveCategory(updated); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(updated); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": updated.ID,
	})
	return updated, nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) ToggleFeatured(id uint) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	product.IsFeatured = !product.IsFeatured
	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to toggle featured flag", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product featured flag toggled", map[string]interface{}{
		"product_id":  id,
		"is_featured": product.IsFeatured,
	})
	return product, nil
}

func (s *productService) ToggleTrend(id uint) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	product.IsTrend = !product.IsTrend
	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to toggle trend flag", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product trend flag toggled", map[string]interface{}{
		"product_id": id,
		"is_trend":   product.IsTrend,
	})
	return product, nil
}

// AddTrends marks a batch of products as trending in one call
func (s *productService) AddTrends(ids []uint) ([]model.Product, error) {
	logger.Info("Adding products to trends", map[string]interface{}{
		"count": len(ids),
	})

	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, ErrProductNotFound
	}

	for i := range products {
		if products[i].IsTrend {
			continue
		}
		products[i].IsTrend = true
		if err := s.productRepo.Update(&products[i]); err != nil {
			logger.Error("Failed to mark product as trend", err, map[string]interface{}{
				"product_id": products[i].ID,
			})
			return nil, err
		}
	}
	return products, nil
}

// ExportProducts builds an xlsx workbook of the full catalog
func (s *productService) ExportProducts() (*excelize.File, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := "Products"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Product Number", "SKU", "Name", "Brand", "Category", "Price",
		"Discount %", "Price After Discount", "Stock", "Alert Threshold",
		"Tags", "Featured", "Trend", "Attributes",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, product := range products {
		values := []interface{}{
			product.ProductNumber,
			product.SKU,
			product.Name,
			product.Brand,
			product.CategoryName,
			product.Price,
			product.DiscountPercentage,
			derivedPriceCell(product.PriceAfterDiscount),
			product.StockQuantity,
			product.InventoryAlertThreshold,
			strings.Join(product.Tags, ", "),
			product.IsFeatured,
			product.IsTrend,
			formatAttributes(product.Attributes),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Product export generated", map[string]interface{}{
		"count": len(products),
	})
	return file, nil
}

func (s *productService) checkUniqueness(payload *form.ProductPayload, selfID uint) error {
	existing, err := s.productRepo.FindByProductNumber(payload.ProductNumber)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		logger.Warn("Duplicate product number rejected", map[string]interface{}{
			"product_number": payload.ProductNumber,
		})
		return ErrProductNumberExists
	}
	return nil
}

// resolveCategory verifies the referenced category and pins the stored
// category name to the catalog's current one.
func (s *productService) resolveCategory(product *model.Product) error {
	category, err := s.categoryRepo.FindByID(product.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product references unknown category", map[string]interface{}{
				"category_id": product.CategoryID,
			})
			return ErrCategoryNotFound
		}
		return err
	}
	product.CategoryName = category.Name
	return nil
}

func productFromPayload(payload *form.ProductPayload) *model.Product {
	return &model.Product{
		ProductNumber:           payload.ProductNumber,
		SKU:                     payload.SKU,
		Name:                    payload.ProductName,
		Brand:                   payload.Brand,
		Warranty:                payload.Warranty,
		CategoryID:              payload.CategoryID,
		CategoryName:            payload.CategoryName,
		Price:                   payload.Price,
		DiscountPercentage:      payload.DiscountPercentage,
		PriceAfterDiscount:      payload.PriceAfterDiscount,
		StockQuantity:           payload.StockQuantity,
		InventoryAlertThreshold: payload.InventoryAlertThreshold,
		Description:             payload.Description,
		Tags:                    model.StringList(payload.Tags),
		MediaURLs:               model.StringList(payload.MediaURL),
		IsFeatured:              payload.IsFeatured,
		Attributes:              model.AttributeMap(payload.Attributes),
	}
}

func derivedPriceCell(price *float64) interface{} {
	if price == nil {
		return ""
	}
	return *price
}

func formatAttributes(attrs model.AttributeMap) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(attrs))
	for name, value := range attrs {
		parts = append(parts, fmt.Sprintf("%s=%v", name, value))
	}
	return strings.Join(parts, "; ")
}
