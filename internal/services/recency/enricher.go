// Package recency computes days-since-last-purchase for every customer,
// anchored to the latest purchase timestamp in the whole dataset.
package recency

import (
	"time"

	"shopdash/internal/models"
)

// Enrich computes recency for every order row in place and returns the set.
// Recency is the whole-day difference (fractional days truncated) between the
// dataset's global maximum purchase timestamp and the customer's own latest
// purchase, so every row of one customer carries the same value.
//
// Runs once at load time. Filtering never re-anchors the global maximum, so
// recency values are stable across filter changes.
func Enrich(orders *models.OrderSet) *models.OrderSet {
	if orders.Len() == 0 {
		return orders
	}

	globalMax := orders.MaxDate()

	lastPurchase := make(map[string]time.Time)
	for _, o := range orders.Orders {
		if last, ok := lastPurchase[o.CustomerID]; !ok || o.PurchaseTimestamp.After(last) {
			lastPurchase[o.CustomerID] = o.PurchaseTimestamp
		}
	}

	for i := range orders.Orders {
		last := lastPurchase[orders.Orders[i].CustomerID]
		orders.Orders[i].Recency = int(globalMax.Sub(last).Hours() / 24)
	}

	return orders
}
