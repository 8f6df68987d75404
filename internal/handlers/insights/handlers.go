// Package insights serves the customer insights view: KPI cards, the RFM
// scatter and the churn risk pie.
package insights

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	httpx "shopdash/internal/http"
	"shopdash/internal/services/charts"
	"shopdash/internal/services/dataset"
	"shopdash/internal/services/filter"
	"shopdash/internal/services/metrics"
)

var (
	loader     *dataset.Loader
	metricsSvc *metrics.Service
	log        *zap.SugaredLogger
)

// Initialize sets up the insights package with required dependencies
func Initialize(l *dataset.Loader, m *metrics.Service, logger *zap.SugaredLogger) {
	loader = l
	metricsSvc = m
	log = logger
}

// RegisterRoutes registers all customer insights routes
func RegisterRoutes(r chi.Router) {
	r.Get("/insights/metrics", handleMetrics)
	r.Get("/insights/charts/scatter", handleScatterChart)
	r.Get("/insights/charts/churn", handleChurnChart)
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	ordersView, _ := filter.Apply(snap.Orders, snap.Segments, sel)
	m := metricsSvc.Summarize(ordersView, sel.ChurnThreshold)

	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"total_customers": m.TotalCustomers,
		"total_revenue":   m.TotalRevenue,
		"avg_order_value": m.AvgOrderValue,
		"churn_rate":      m.ChurnRate,
		"churn_threshold": sel.ChurnThreshold,
	})
}

func handleScatterChart(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	// Scatter data comes straight from the filtered segment rows, never
	// derived from orders.
	_, segmentsView := filter.Apply(snap.Orders, snap.Segments, sel)

	httpx.WriteJSON(w, http.StatusOK, charts.ScatterSeries(segmentsView))
}

func handleChurnChart(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	ordersView, _ := filter.Apply(snap.Orders, snap.Segments, sel)

	httpx.WriteJSON(w, http.StatusOK, charts.PieSeries(ordersView, sel.ChurnThreshold))
}

// loadAndParse fetches the snapshot and parses the selection, writing the
// error response itself when either fails
func loadAndParse(w http.ResponseWriter, r *http.Request) (*dataset.Snapshot, filter.Selection, bool) {
	snap, err := loader.Load()
	if err != nil {
		log.Errorw("Error loading dataset", "error", err)
		httpx.WriteError(w, "dataset unavailable", http.StatusInternalServerError)
		return nil, filter.Selection{}, false
	}

	sel, err := httpx.ParseSelection(r.URL.Query(), snap.Orders.MinDate(), snap.Orders.MaxDate())
	if err != nil {
		if errors.Is(err, filter.ErrInvalidSelection) {
			httpx.WriteError(w, err.Error(), http.StatusBadRequest)
		} else {
			httpx.WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, filter.Selection{}, false
	}

	return snap, sel, true
}
