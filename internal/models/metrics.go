package models

import "time"

// Metrics contains the KPI metrics shared by the dashboard views
type Metrics struct {
	TotalCustomers int     `json:"total_customers"`
	TotalRevenue   float64 `json:"total_revenue"`
	AvgOrderValue  float64 `json:"avg_order_value"`
	ChurnRate      float64 `json:"churn_rate"`

	// Product analysis
	TotalProducts  int    `json:"total_products"`
	TopCategory    string `json:"top_category,omitempty"`
	HasTopCategory bool   `json:"has_top_category"`

	CategoryRevenue map[string]float64 `json:"category_revenue"`

	// ActivityMatrix counts orders per (calendar date, category). Dates are
	// "2006-01-02" keys with time-of-day truncated.
	ActivityMatrix map[string]map[string]int `json:"activity_matrix"`

	// Economic trends
	MonthlyRevenue map[string]float64 `json:"monthly_revenue"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
