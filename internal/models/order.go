package models

import (
	"sort"
	"time"
)

// ChurnRisk classifies a customer by how long they have been inactive
type ChurnRisk string

const (
	HighRisk ChurnRisk = "High Risk"
	LowRisk  ChurnRisk = "Low Risk"
)

// Order represents a single order line item
type Order struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_unique_id"`

	// ProductCategory is the coarse category; ProductCategoryName is the
	// finer source-level name. They are distinct fields in the dataset and
	// are never interchangeable.
	ProductCategory     string    `json:"product_category"`
	ProductCategoryName string    `json:"product_category_name"`
	PurchaseTimestamp   time.Time `json:"order_purchase_timestamp"`
	PaymentValue        float64   `json:"payment_value"`

	// Recency is derived at load time: whole days between this customer's
	// last purchase and the dataset's latest purchase.
	Recency int `json:"recency"`
}

// RiskAt classifies the order's customer against a churn threshold in days.
// Risk is always recomputed from recency, never stored.
func (o *Order) RiskAt(thresholdDays int) ChurnRisk {
	if o.Recency > thresholdDays {
		return HighRisk
	}
	return LowRisk
}

// OrderSet wraps a slice of orders with filtering/aggregation methods
type OrderSet struct {
	Orders []Order
}

// NewOrderSet creates a new OrderSet from a slice
func NewOrderSet(orders []Order) *OrderSet {
	return &OrderSet{Orders: orders}
}

// Len returns the number of order rows
func (os *OrderSet) Len() int {
	return len(os.Orders)
}

// FilterByDateRange returns orders within the date range (both bounds inclusive)
func (os *OrderSet) FilterByDateRange(start, end time.Time) *OrderSet {
	result := &OrderSet{}
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())

	for _, o := range os.Orders {
		if !o.PurchaseTimestamp.Before(startDay) && !o.PurchaseTimestamp.After(endDay) {
			result.Orders = append(result.Orders, o)
		}
	}
	return result
}

// FilterByCategories returns orders whose coarse category is in the given set.
// An empty set yields an empty view, not all categories.
func (os *OrderSet) FilterByCategories(categories []string) *OrderSet {
	result := &OrderSet{}
	if len(categories) == 0 {
		return result
	}

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	for _, o := range os.Orders {
		if wanted[o.ProductCategory] {
			result.Orders = append(result.Orders, o)
		}
	}
	return result
}

// SumPayments returns the sum of payment values
func (os *OrderSet) SumPayments() float64 {
	var sum float64
	for _, o := range os.Orders {
		sum += o.PaymentValue
	}
	return sum
}

// DistinctCustomers returns the number of distinct customer ids
func (os *OrderSet) DistinctCustomers() int {
	seen := make(map[string]bool)
	for _, o := range os.Orders {
		seen[o.CustomerID] = true
	}
	return len(seen)
}

// GroupByCategory groups orders by coarse product category
func (os *OrderSet) GroupByCategory() map[string]*OrderSet {
	result := make(map[string]*OrderSet)
	for _, o := range os.Orders {
		if result[o.ProductCategory] == nil {
			result[o.ProductCategory] = &OrderSet{}
		}
		result[o.ProductCategory].Orders = append(result[o.ProductCategory].Orders, o)
	}
	return result
}

// MinDate returns the earliest purchase timestamp
func (os *OrderSet) MinDate() time.Time {
	if len(os.Orders) == 0 {
		return time.Time{}
	}
	minDate := os.Orders[0].PurchaseTimestamp
	for _, o := range os.Orders[1:] {
		if o.PurchaseTimestamp.Before(minDate) {
			minDate = o.PurchaseTimestamp
		}
	}
	return minDate
}

// MaxDate returns the latest purchase timestamp
func (os *OrderSet) MaxDate() time.Time {
	if len(os.Orders) == 0 {
		return time.Time{}
	}
	maxDate := os.Orders[0].PurchaseTimestamp
	for _, o := range os.Orders[1:] {
		if o.PurchaseTimestamp.After(maxDate) {
			maxDate = o.PurchaseTimestamp
		}
	}
	return maxDate
}

// Categories returns a sorted list of distinct coarse categories
func (os *OrderSet) Categories() []string {
	catMap := make(map[string]bool)
	for _, o := range os.Orders {
		catMap[o.ProductCategory] = true
	}

	cats := make([]string, 0, len(catMap))
	for cat := range catMap {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// CategoryRevenue returns a map of category -> summed payment value
func (os *OrderSet) CategoryRevenue() map[string]float64 {
	result := make(map[string]float64)
	for _, o := range os.Orders {
		result[o.ProductCategory] += o.PaymentValue
	}
	return result
}

// MonthlyRevenue returns a map of month ("2006-01") -> summed payment value
func (os *OrderSet) MonthlyRevenue() map[string]float64 {
	result := make(map[string]float64)
	for _, o := range os.Orders {
		result[o.PurchaseTimestamp.Format("2006-01")] += o.PaymentValue
	}
	return result
}

// Copy creates a shallow copy of the OrderSet
func (os *OrderSet) Copy() *OrderSet {
	copied := make([]Order, len(os.Orders))
	copy(copied, os.Orders)
	return &OrderSet{Orders: copied}
}
