package service

import (
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// ChartPoint is one point of a dashboard chart series
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type DashboardSummary struct {
	ProductCount     int64            `json:"productCount"`
	CategoryCounts   map[string]int64 `json:"categoryCounts"`
	OpenStockAlerts  int              `json:"openStockAlerts"`
	RevenueSeries    []ChartPoint     `json:"revenueSeries"`
	OrdersSeries     []ChartPoint     `json:"ordersSeries"`
	VisitorsByDevice []ChartPoint     `json:"visitorsByDevice"`
}

type DashboardService interface {
	GetSummary() (*DashboardSummary, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	alertRepo   repository.StockAlertRepository
}

func NewDashboardService(productRepo repository.ProductRepository, alertRepo repository.StockAlertRepository) DashboardService {
	return &dashboardService{
		productRepo: productRepo,
		alertRepo:   alertRepo,
	}
}

// GetSummary combines live catalog counts with the static sample series
// the dashboard charts ship with.
func (s *dashboardService) GetSummary() (*DashboardSummary, error) {
	logger.Debug("Building dashboard summary", nil)

	productCount, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	categoryCounts, err := s.productRepo.CountByCategory()
	if err != nil {
		return nil, err
	}
	alerts, err := s.alertRepo.FindOpen()
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		ProductCount:     productCount,
		CategoryCounts:   categoryCounts,
		OpenStockAlerts:  len(alerts),
		RevenueSeries:    sampleRevenueSeries(),
		OrdersSeries:     sampleOrdersSeries(),
		VisitorsByDevice: sampleVisitorsByDevice(),
	}

	logger.Info("Dashboard summary built", map[string]interface{}{
		"product_count":     productCount,
		"open_stock_alerts": summary.OpenStockAlerts,
	})
	return summary, nil
}

// Sample chart data. The dashboard renders these as-is; real analytics
// are out of scope for the admin panel.
func sampleRevenueSeries() []ChartPoint {
	return []ChartPoint{
		{Label: "Jan", Value: 4000}, {Label: "Feb", Value: 3000},
		{Label: "Mar", Value: 5000}, {Label: "Apr", Value: 4780},
		{Label: "May", Value: 5890}, {Label: "Jun", Value: 4390},
		{Label: "Jul", Value: 6490},
	}
}

func sampleOrdersSeries() []ChartPoint {
	return []ChartPoint{
		{Label: "Jan", Value: 240}, {Label: "Feb", Value: 139},
		{Label: "Mar", Value: 380}, {Label: "Apr", Value: 290},
		{Label: "May", Value: 480}, {Label: "Jun", Value: 380},
		{Label: "Jul", Value: 530},
	}
}

func sampleVisitorsByDevice() []ChartPoint {
	return []ChartPoint{
		{Label: "Mobile", Value: 62},
		{Label: "Desktop", Value: 31},
		{Label: "Tablet", Value: 7},
	}
}
