// Package trends serves the economic trends view: revenue over time.
package trends

import (
	"errors"
	"net/http"
	"sort"

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

// Initialize sets up the trends package with required dependencies
func Initialize(l *dataset.Loader, m *metrics.Service, logger *zap.SugaredLogger) {
	loader = l
	metricsSvc = m
	log = logger
}

// RegisterRoutes registers all economic trends routes
func RegisterRoutes(r chi.Router) {
	r.Get("/trends/metrics", handleMetrics)
	r.Get("/trends/charts/revenue", handleRevenueChart)
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	ordersView, _ := filter.Apply(snap.Orders, snap.Segments, sel)
	m := metricsSvc.Summarize(ordersView, sel.ChurnThreshold)

	months := make([]string, 0, len(m.MonthlyRevenue))
	for month := range m.MonthlyRevenue {
		months = append(months, month)
	}
	sort.Strings(months)

	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"total_revenue":   m.TotalRevenue,
		"monthly_revenue": m.MonthlyRevenue,
		"months":          months,
	})
}

func handleRevenueChart(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := loadAndParse(w, r)
	if !ok {
		return
	}

	ordersView, _ := filter.Apply(snap.Orders, snap.Segments, sel)
	m := metricsSvc.Summarize(ordersView, sel.ChurnThreshold)

	httpx.WriteJSON(w, http.StatusOK, charts.TrendSeries(m.MonthlyRevenue))
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
