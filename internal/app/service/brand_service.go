package service

import (
	"errors"

	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBrandNotFound   = errors.New("brand not found")
	ErrBrandNameExists = errors.New("brand name already exists")
)

type BrandService interface {
	ListBrands() ([]model.Brand, error)
	CreateBrand(name, imageURL string) (*model.Brand, error)
	DeleteBrand(id uint) error
}

type brandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) BrandService {
	return &brandService{brandRepo: brandRepo}
}

func (s *brandService) ListBrands() ([]model.Brand, error) {
	brands, err := s.brandRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list brands", err)
		return nil, err
	}

	logger.Info("Brands listed", map[string]interface{}{
		"count": len(brands),
	})
	return brands, nil
}

func (s *brandService) CreateBrand(name, imageURL string) (*model.Brand, error) {
	logger.Info("Creating new brand", map[string]interface{}{
		"name": name,
	})

	existing, err := s.brandRepo.FindByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing brand", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Duplicate brand name rejected", map[string]interface{}{
			"name": name,
		})
		return nil, ErrBrandNameExists
	}

	brand := &model.Brand{Name: name, ImageURL: imageURL}
	if err := s.brandRepo.Create(brand); err != nil {
		logger.Error("Failed to create brand", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Brand created successfully", map[string]interface{}{
		"brand_id": brand.ID,
		"name":     brand.Name,
	})
	return brand, nil
}

func (s *brandService) DeleteBrand(id uint) error {
	logger.Info("Deleting brand", map[string]interface{}{
		"brand_id": id,
	})

	if _, err := s.brandRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBrandNotFound
		}
		return err
	}
	return s.brandRepo.Delete(id)
}
