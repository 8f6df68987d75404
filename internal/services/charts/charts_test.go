package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopdash/internal/models"
)

func TestScatterSeriesGroupsBySegment(t *testing.T) {
	view := models.NewSegmentSet([]models.Segment{
		{CustomerID: "a", Segment: models.SegmentLoyal, Frequency: 5, TotalSpending: 500},
		{CustomerID: "b", Segment: models.SegmentLoyal, Frequency: 3, TotalSpending: 120},
		{CustomerID: "c", Segment: models.SegmentLost, Frequency: 1, TotalSpending: 30},
	})

	resp := ScatterSeries(view)

	assert.False(t, resp.Empty)
	assert.Len(t, resp.Data, 2, "one trace per segment label")
	// Sorted labels put "Lost Customers" before "Loyal Customers"
	assert.Equal(t, models.SegmentLost, resp.Data[0].Name)
	assert.Equal(t, models.SegmentLoyal, resp.Data[1].Name)
	assert.Equal(t, []int{5, 3}, resp.Data[1].X)
	assert.Equal(t, []float64{500, 120}, resp.Data[1].Y)
	assert.Equal(t, []string{"a", "b"}, resp.Data[1].Text)
}

func TestScatterSeriesEmpty(t *testing.T) {
	resp := ScatterSeries(models.NewSegmentSet(nil))
	assert.True(t, resp.Empty)
	assert.Empty(t, resp.Data)
}

func TestChurnCountsThreshold(t *testing.T) {
	view := models.NewOrderSet([]models.Order{
		{CustomerID: "a", Recency: 200},
		{CustomerID: "b", Recency: 100},
		{CustomerID: "c", Recency: 180},
	})

	counts := ChurnCounts(view, 180)

	assert.Equal(t, 1, counts[models.HighRisk], "recency 200 exceeds threshold 180")
	assert.Equal(t, 2, counts[models.LowRisk], "recency at the threshold is low risk")
}

func TestPieSeries(t *testing.T) {
	view := models.NewOrderSet([]models.Order{
		{CustomerID: "a", Recency: 200},
		{CustomerID: "b", Recency: 100},
	})

	resp := PieSeries(view, 180)

	assert.False(t, resp.Empty)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, []string{string(models.HighRisk), string(models.LowRisk)}, resp.Data[0].Labels)
	assert.Equal(t, []float64{1, 1}, resp.Data[0].Values)
}

func TestPieSeriesEmpty(t *testing.T) {
	resp := PieSeries(models.NewOrderSet(nil), 180)
	assert.True(t, resp.Empty)
}

func TestGridRoundTrip(t *testing.T) {
	activity := map[string]map[string]int{
		"2024-01-01": {"books": 2, "toys": 1},
		"2024-01-03": {"toys": 4},
		"2024-01-02": {"books": 3},
	}

	grid := Grid(activity)

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, grid.Dates)
	assert.Equal(t, []string{"books", "toys"}, grid.Categories)
	assert.Len(t, grid.Counts, 3)

	// Missing cells fill with zero
	assert.Equal(t, []int{3, 0}, grid.Counts[1])
	assert.Equal(t, []int{0, 4}, grid.Counts[2])

	// Row sums match the per-date totals
	for i, date := range grid.Dates {
		var rowSum, want int
		for _, v := range grid.Counts[i] {
			rowSum += v
		}
		for _, v := range activity[date] {
			want += v
		}
		assert.Equal(t, want, rowSum, "row sum for %s", date)
	}

	// Column sums match the per-category totals
	for j, cat := range grid.Categories {
		var colSum, want int
		for i := range grid.Dates {
			colSum += grid.Counts[i][j]
		}
		for _, byCat := range activity {
			want += byCat[cat]
		}
		assert.Equal(t, want, colSum, "column sum for %s", cat)
	}
}

func TestHeatmapSeriesEmpty(t *testing.T) {
	resp := HeatmapSeries(map[string]map[string]int{})
	assert.True(t, resp.Empty)
}

func TestTreemapEntriesDescending(t *testing.T) {
	entries := TreemapEntries(map[string]float64{
		"books":       300,
		"electronics": 700,
	})

	assert.Len(t, entries, 2)
	assert.Equal(t, models.TreemapEntry{Category: "electronics", Revenue: 700}, entries[0])
	assert.Equal(t, models.TreemapEntry{Category: "books", Revenue: 300}, entries[1])
}

func TestTreemapEntriesStableTies(t *testing.T) {
	entries := TreemapEntries(map[string]float64{
		"toys":  100,
		"books": 100,
		"pets":  100,
	})

	assert.Equal(t, "books", entries[0].Category)
	assert.Equal(t, "pets", entries[1].Category)
	assert.Equal(t, "toys", entries[2].Category)
}

func TestTreemapSeriesEmpty(t *testing.T) {
	resp := TreemapSeries(map[string]float64{})
	assert.True(t, resp.Empty)
}

func TestTrendSeriesSortedMonths(t *testing.T) {
	resp := TrendSeries(map[string]float64{
		"2024-02": 50,
		"2024-01": 150,
		"2023-12": 80,
	})

	assert.False(t, resp.Empty)
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02"}, resp.Data[0].X)
	assert.Equal(t, []float64{80, 150, 50}, resp.Data[0].Y)
}

func TestScatterPointsMapping(t *testing.T) {
	points := ScatterPoints(models.NewSegmentSet([]models.Segment{
		{CustomerID: "a", Segment: models.SegmentPotential, Frequency: 7, TotalSpending: 420.5},
	}))

	assert.Equal(t, []models.ScatterPoint{
		{X: 7, Y: 420.5, Label: models.SegmentPotential, ID: "a"},
	}, points)
}
