// Package metrics aggregates a filtered order view into the summary numbers
// backing the dashboard's metric cards and charts.
package metrics

import (
	"shopdash/internal/models"
)

// Service provides metric calculation functionality
type Service struct{}

// New creates a new metrics service
func New() *Service {
	return &Service{}
}

// Summarize computes all dashboard metrics from the filtered views. Every
// reduction is guarded: an empty view produces defined zero values, never a
// division error or NaN.
func (s *Service) Summarize(ordersView *models.OrderSet, churnThresholdDays int) *models.Metrics {
	m := &models.Metrics{
		TotalCustomers:  ordersView.DistinctCustomers(),
		TotalRevenue:    ordersView.SumPayments(),
		TotalProducts:   ordersView.Len(),
		CategoryRevenue: ordersView.CategoryRevenue(),
		MonthlyRevenue:  ordersView.MonthlyRevenue(),
		ActivityMatrix:  activityMatrix(ordersView),
		StartDate:       ordersView.MinDate(),
		EndDate:         ordersView.MaxDate(),
	}

	if ordersView.Len() > 0 {
		m.AvgOrderValue = m.TotalRevenue / float64(ordersView.Len())
	}

	m.ChurnRate = churnRate(ordersView, churnThresholdDays, m.TotalCustomers)
	m.TopCategory, m.HasTopCategory = topCategory(ordersView)

	return m
}

// churnRate is the percentage of order rows whose customer's recency exceeds
// the threshold, over the distinct customer count. Zero customers means a
// defined zero rate, not a division error.
func churnRate(ordersView *models.OrderSet, thresholdDays, totalCustomers int) float64 {
	if totalCustomers == 0 {
		return 0
	}

	var atRisk int
	for _, o := range ordersView.Orders {
		if o.Recency > thresholdDays {
			atRisk++
		}
	}

	return float64(atRisk) / float64(totalCustomers) * 100
}

// topCategory returns the most frequent coarse category. Ties break to the
// lowest category name alphabetically. The second return is false when the
// view is empty.
func topCategory(ordersView *models.OrderSet) (string, bool) {
	if ordersView.Len() == 0 {
		return "", false
	}

	counts := make(map[string]int)
	for _, o := range ordersView.Orders {
		counts[o.ProductCategory]++
	}

	var top string
	var topCount int
	for cat, count := range counts {
		if count > topCount || (count == topCount && (top == "" || cat < top)) {
			top = cat
			topCount = count
		}
	}

	return top, true
}

// activityMatrix counts orders per (calendar date, category). Dates truncate
// time-of-day to "2006-01-02" keys.
func activityMatrix(ordersView *models.OrderSet) map[string]map[string]int {
	matrix := make(map[string]map[string]int)
	for _, o := range ordersView.Orders {
		date := o.PurchaseTimestamp.Format("2006-01-02")
		if matrix[date] == nil {
			matrix[date] = make(map[string]int)
		}
		matrix[date][o.ProductCategory]++
	}
	return matrix
}
