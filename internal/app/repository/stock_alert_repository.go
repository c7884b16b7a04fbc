package repository

import (
	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"gorm.io/gorm"
)

type StockAlertRepository interface {
	Create(alert *model.StockAlert) error
	FindOpen() ([]model.StockAlert, error)
	HasOpenAlert(productID uint) (bool, error)
	Acknowledge(id uint) error
}

type stockAlertRepository struct {
	db *gorm.DB
}

func NewStockAlertRepository(db *gorm.DB) StockAlertRepository {
	return &stockAlertRepository{db: db}
}

func (r *stockAlertRepository) Create(alert *model.StockAlert) error {
	logger.Debug("Creating stock alert in database", map[string]interface{}{
		"product_id": alert.ProductID,
		"stock":      alert.StockQuantity,
		"threshold":  alert.Threshold,
	})

	if err := r.db.Create(alert).Error; err != nil {
		logger.Error("Failed to create stock alert in database", err, map[string]interface{}{
			"product_id": alert.ProductID,
		})
		return err
	}
	return nil
}

func (r *stockAlertRepository) FindOpen() ([]model.StockAlert, error) {
	var alerts []model.StockAlert
	err := r.db.Where("acknowledged = ?", false).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		logger.Error("Failed to list open stock alerts", err)
		return nil, err
	}
	return alerts, nil
}

// HasOpenAlert reports whether the product already has an open alert,
// so the scheduler does not raise the same one on every scan.
func (r *stockAlertRepository) HasOpenAlert(productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.StockAlert{}).
		Where("product_id = ? AND acknowledged = ?", productID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *stockAlertRepository) Acknowledge(id uint) error {
	result := r.db.Model(&model.StockAlert{}).
		Where("id = ?", id).
		Update("acknowledged", true)
	if result.Error != nil {
		logger.Error("Failed to acknowledge stock alert", result.Error, map[string]interface{}{
			"alert_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
