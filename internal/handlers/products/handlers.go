// Package products serves the product analysis view: sales KPI cards, the
// activity heatmap and the revenue treemap.
package products

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

// Initialize sets up the products package with required dependencies
func Initialize(l *dataset.Loader, m *metrics.Service, logger *zap.SugaredLogger) {
	loader = l
	metricsSvc = m
	log = logger
}

// RegisterRoutes registers all product analysis routes
func RegisterRoutes(r chi.Router) {
	r.Get("/products/metrics", handleMetrics)
	r.Get("/products/charts/heatmap", handleHeatmapChart)
	r.Get("/products/charts/treemap", handleTreemapChart)
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	ordersView, _ := filter.Apply(snap.Orders, snap.Segments, sel)
	m := metricsSvc.Summarize(ordersView, sel.ChurnThreshold)

	resp := map[string]interface{}{
		"total_products": m.TotalProducts,
		"total_revenue":  m.TotalRevenue,
	}
	if m.HasTopCategory {
		resp["top_category"] = m.TopCategory
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func handleHeatmapChart(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	ordersView, _ := filter.Apply(snap.Orders, snap.Segments, sel)
	m := metricsSvc.Summarize(ordersView, sel.ChurnThreshold)

	httpx.WriteJSON(w, http.StatusOK, charts.HeatmapSeries(m.ActivityMatrix))
}

func handleTreemapChart(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	ordersView, _ := filter.Apply(snap.Orders, snap.Segments, sel)
	m := metricsSvc.Summarize(ordersView, sel.ChurnThreshold)

	httpx.WriteJSON(w, http.StatusOK, charts.TreemapSeries(m.CategoryRevenue))
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
