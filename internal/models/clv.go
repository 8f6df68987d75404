package models

// CLVRecord is one customer-lifetime-value row. No current view consumes
// these beyond the customer id; the remaining columns are carried opaquely
// for future views.
type CLVRecord struct {
	CustomerID string            `json:"customer_unique_id"`
	Values     map[string]string `json:"values,omitempty"`
}
