package service

import (
	"errors"

	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrStockAlertNotFound = errors.New("stock alert not found")

// StockAlertNotifier pushes a raised alert to connected dashboard
// clients. The websocket hub implements it.
type StockAlertNotifier interface {
	BroadcastStockAlert(alert *model.StockAlert)
}

type InventoryService interface {
	ScanLowStock() ([]model.StockAlert, error)
	ListOpenAlerts() ([]model.StockAlert, error)
	AcknowledgeAlert(id uint) error
}

type inventoryService struct {
	productRepo repository.ProductRepository
	alertRepo   repository.StockAlertRepository
	notifier    StockAlertNotifier
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	alertRepo repository.StockAlertRepository,
	notifier StockAlertNotifier,
) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		alertRepo:   alertRepo,
		notifier:    notifier,
	}
}

// ScanLowStock raises an alert for every monitored product at or below
// its threshold that does not already have an open alert.
func (s *inventoryService) ScanLowStock() ([]model.StockAlert, error) {
	logger.Debug("Scanning for low stock products", nil)

	products, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, err
	}

	var raised []model.StockAlert
	for _, product := range products {
		open, err := s.alertRepo.HasOpenAlert(product.ID)
		if err != nil {
			logger.Error("Failed to check open stock alerts", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return nil, err
		}
		if open {
			continue
		}

		alert := model.StockAlert{
			ProductID:     product.ID,
			ProductName:   product.Name,
			StockQuantity: product.StockQuantity,
			Threshold:     product.InventoryAlertThreshold,
			Channels:      pq.StringArray{"dashboard", "websocket"},
		}
		if err := s.alertRepo.Create(&alert); err != nil {
			return nil, err
		}
		raised = append(raised, alert)

		if s.notifier != nil {
			s.notifier.BroadcastStockAlert(&alert)
		}
	}

	if len(raised) > 0 {
		logger.Info("Low stock alerts raised", map[string]interface{}{
			"count": len(raised),
		})
	}
	return raised, nil
}

func (s *inventoryService) ListOpenAlerts() ([]model.StockAlert, error) {
	return s.alertRepo.FindOpen()
}

func (s *inventoryService) AcknowledgeAlert(id uint) error {
	logger.Info("Acknowledging stock alert", map[string]interface{}{
		"alert_id": id,
	})

	if err := s.alertRepo.Acknowledge(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStockAlertNotFound
		}
		return err
	}
	return nil
}
