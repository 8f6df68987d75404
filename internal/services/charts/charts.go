// Package charts reshapes aggregated results into chart-ready payloads. No
// aggregation logic lives here, only shape transformation; empty inputs come
// back tagged Empty so the rendering layer can show a placeholder.
package charts

import (
	"sort"

	"shopdash/internal/models"
)

// ScatterPoints maps segment rows onto frequency/spending points
func ScatterPoints(segmentsView *models.SegmentSet) []models.ScatterPoint {
	points := make([]models.ScatterPoint, 0, segmentsView.Len())
	for _, s := range segmentsView.Segments {
		points = append(points, models.ScatterPoint{
			X:     s.Frequency,
			Y:     s.TotalSpending,
			Label: s.Segment,
			ID:    s.CustomerID,
		})
	}
	return points
}

// ScatterSeries builds the RFM scatter: one trace per segment label, points
// at (order frequency, total spending), customer ids as hover text
func ScatterSeries(segmentsView *models.SegmentSet) models.ChartResponse {
	points := ScatterPoints(segmentsView)
	if len(points) == 0 {
		return models.ChartResponse{Empty: true}
	}

	grouped := make(map[string][]models.ScatterPoint)
	for _, p := range points {
		grouped[p.Label] = append(grouped[p.Label], p)
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var traces []models.ChartData
	for _, label := range labels {
		pts := grouped[label]
		xs := make([]int, len(pts))
		ys := make([]float64, len(pts))
		text := make([]string, len(pts))
		for i, p := range pts {
			xs[i] = p.X
			ys[i] = p.Y
			text[i] = p.ID
		}
		traces = append(traces, models.ChartData{
			Type: "scatter",
			Mode: "markers",
			Name: label,
			X:    xs,
			Y:    ys,
			Text: text,
		})
	}

	return models.ChartResponse{
		Data: traces,
		Layout: models.ChartLayout{
			Title:      "Customer Segments Based on Frequency & Spending",
			XAxisTitle: "Total Orders",
			YAxisTitle: "Total Spending",
			ShowLegend: true,
		},
	}
}

// ChurnCounts classifies every order row against the threshold. Risk is
// recomputed from recency each time, never read from storage.
func ChurnCounts(ordersView *models.OrderSet, thresholdDays int) map[models.ChurnRisk]int {
	counts := map[models.ChurnRisk]int{
		models.HighRisk: 0,
		models.LowRisk:  0,
	}
	for _, o := range ordersView.Orders {
		counts[o.RiskAt(thresholdDays)]++
	}
	return counts
}

// PieSeries builds the churn risk distribution pie
func PieSeries(ordersView *models.OrderSet, thresholdDays int) models.ChartResponse {
	if ordersView.Len() == 0 {
		return models.ChartResponse{Empty: true}
	}

	counts := ChurnCounts(ordersView, thresholdDays)

	return models.ChartResponse{
		Data: []models.ChartData{{
			Type:   "pie",
			Labels: []string{string(models.HighRisk), string(models.LowRisk)},
			Values: []float64{float64(counts[models.HighRisk]), float64(counts[models.LowRisk])},
		}},
		Layout: models.ChartLayout{Title: "Churn Risk Distribution"},
	}
}

// Grid densifies an activity matrix into sorted unique dates (rows) by
// sorted unique categories (columns), missing cells filled with 0
func Grid(activity map[string]map[string]int) models.HeatmapGrid {
	dateSet := make(map[string]bool)
	catSet := make(map[string]bool)
	for date, byCat := range activity {
		dateSet[date] = true
		for cat := range byCat {
			catSet[cat] = true
		}
	}

	grid := models.HeatmapGrid{}
	for date := range dateSet {
		grid.Dates = append(grid.Dates, date)
	}
	for cat := range catSet {
		grid.Categories = append(grid.Categories, cat)
	}
	sort.Strings(grid.Dates)
	sort.Strings(grid.Categories)

	grid.Counts = make([][]int, len(grid.Dates))
	for i, date := range grid.Dates {
		row := make([]int, len(grid.Categories))
		for j, cat := range grid.Categories {
			row[j] = activity[date][cat]
		}
		grid.Counts[i] = row
	}

	return grid
}

// HeatmapSeries builds the customer activity heatmap
func HeatmapSeries(activity map[string]map[string]int) models.ChartResponse {
	grid := Grid(activity)
	if len(grid.Dates) == 0 {
		return models.ChartResponse{Empty: true}
	}

	return models.ChartResponse{
		Data: []models.ChartData{{
			Type: "heatmap",
			X:    grid.Categories,
			Y:    grid.Dates,
			Z:    grid.Counts,
		}},
		Layout: models.ChartLayout{
			Title:      "Customer Activity Heatmap",
			XAxisTitle: "Product Category",
			YAxisTitle: "Date",
		},
	}
}

// TreemapEntries sorts category revenue descending, ties broken by category
// name so rendering stays stable
func TreemapEntries(categoryRevenue map[string]float64) []models.TreemapEntry {
	entries := make([]models.TreemapEntry, 0, len(categoryRevenue))
	for cat, revenue := range categoryRevenue {
		entries = append(entries, models.TreemapEntry{Category: cat, Revenue: revenue})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Revenue != entries[j].Revenue {
			return entries[i].Revenue > entries[j].Revenue
		}
		return entries[i].Category < entries[j].Category
	})

	return entries
}

// TreemapSeries builds the revenue-by-category treemap
func TreemapSeries(categoryRevenue map[string]float64) models.ChartResponse {
	entries := TreemapEntries(categoryRevenue)
	if len(entries) == 0 {
		return models.ChartResponse{Empty: true}
	}

	labels := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		labels[i] = e.Category
		values[i] = e.Revenue
	}

	return models.ChartResponse{
		Data: []models.ChartData{{
			Type:   "treemap",
			Labels: labels,
			Values: values,
		}},
		Layout: models.ChartLayout{Title: "Revenue by Product Category"},
	}
}

// TrendSeries builds the monthly revenue line for the economic trends view
func TrendSeries(monthlyRevenue map[string]float64) models.ChartResponse {
	if len(monthlyRevenue) == 0 {
		return models.ChartResponse{Empty: true}
	}

	months := make([]string, 0, len(monthlyRevenue))
	for m := range monthlyRevenue {
		months = append(months, m)
	}
	sort.Strings(months)

	values := make([]float64, len(months))
	for i, m := range months {
		values[i] = monthlyRevenue[m]
	}

	return models.ChartResponse{
		Data: []models.ChartData{{
			Type: "scatter",
			Mode: "lines+markers",
			Name: "Revenue",
			X:    months,
			Y:    values,
		}},
		Layout: models.ChartLayout{
			Title:      "Monthly Revenue",
			XAxisTitle: "Month",
			YAxisTitle: "Revenue",
		},
	}
}
