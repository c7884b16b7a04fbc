package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// InventoryScheduler periodically scans the catalog for products at or
// below their alert threshold and raises stock alerts.
type InventoryScheduler struct {
	cron             *cron.Cron
	inventoryService service.InventoryService
}

func NewInventoryScheduler(inventoryService service.InventoryService) *InventoryScheduler {
	return &InventoryScheduler{
		cron:             cron.New(),
		inventoryService: inventoryService,
	}
}

// Start registers the scan job and runs one scan immediately so the
// dashboard is accurate right after boot.
func (s *InventoryScheduler) Start() error {
	// every 15 minutes
	_, err := s.cron.AddFunc("*/15 * * * *", s.runScan)
	if err != nil {
		logger.Error("Failed to add cron job for inventory scan", err)
		return err
	}

	s.cron.Start()
	logger.Info("Inventory scheduler started (every 15 minutes)", nil)

	go s.runScan()
	return nil
}

// Stop halts the scheduler
func (s *InventoryScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Inventory scheduler stopped", nil)
}

func (s *InventoryScheduler) runScan() {
	logger.Debug("Starting scheduled low-stock scan", nil)

	alerts, err := s.inventoryService.ScanLowStock()
	if err != nil {
		logger.Error("Scheduled low-stock scan failed", err)
		return
	}

	if len(alerts) > 0 {
		logger.Info("Low-stock scan raised alerts", map[string]interface{}{
			"count": len(alerts),
		})
	}
}
