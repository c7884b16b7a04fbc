package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/internal/errors"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
)

type DashboardController struct {
	dashboardService service.DashboardService
	inventoryService service.InventoryService
}

func NewDashboardController(dashboardService service.DashboardService, inventoryService service.InventoryService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		inventoryService: inventoryService,
	}
}

// GetSummary returns the dashboard landing page numbers (Admin only)
// GET /api/dashboard/summary
func (ctrl *DashboardController) GetSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	summary, err := ctrl.dashboardService.GetSummary()
	if err != nil {
		log.Error("Failed to build dashboard summary", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListStockAlerts returns open low-stock alerts, newest first (Admin only)
// GET /api/dashboard/stock-alerts
func (ctrl *DashboardController) ListStockAlerts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	alerts, err := ctrl.inventoryService.ListOpenAlerts()
	if err != nil {
		log.Error("Failed to fetch stock alerts", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// AcknowledgeStockAlert closes one alert (Admin only)
// PATCH /api/dashboard/stock-alerts/:id/acknowledge
func (ctrl *DashboardController) AcknowledgeStockAlert(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.inventoryService.AcknowledgeAlert(id); err != nil {
		if stderrors.Is(err, service.ErrStockAlertNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "Stock alert not found")
			return
		}
		log.Error("Failed to acknowledge stock alert", err, map[string]interface{}{
			"alert_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	log.Info("Stock alert acknowledged", map[string]interface{}{
		"alert_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert acknowledged",
	})
}
