package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shopdash/internal/models"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleOrders() *models.OrderSet {
	return models.NewOrderSet([]models.Order{
		{OrderID: "o1", CustomerID: "a", ProductCategory: "electronics", PurchaseTimestamp: ts("2024-01-01"), PaymentValue: 100},
		{OrderID: "o2", CustomerID: "a", ProductCategory: "electronics", PurchaseTimestamp: ts("2024-02-01"), PaymentValue: 50},
		{OrderID: "o3", CustomerID: "b", ProductCategory: "furniture_decor", PurchaseTimestamp: ts("2024-01-15"), PaymentValue: 200},
		{OrderID: "o4", CustomerID: "c", ProductCategory: "toys", PurchaseTimestamp: ts("2024-03-01"), PaymentValue: 75},
	})
}

func sampleSegments() *models.SegmentSet {
	return models.NewSegmentSet([]models.Segment{
		{CustomerID: "a", Segment: models.SegmentLoyal, Frequency: 5, TotalSpending: 500},
		{CustomerID: "b", Segment: models.SegmentPotential, Frequency: 2, TotalSpending: 200},
		{CustomerID: "c", Segment: models.SegmentLost, Frequency: 1, TotalSpending: 75},
	})
}

func TestApplyDateAndCategory(t *testing.T) {
	sel := Selection{
		From:       ts("2024-01-01"),
		To:         ts("2024-01-31"),
		Categories: []string{"electronics", "furniture_decor"},
		Segments:   []string{models.SegmentLoyal},
	}

	ordersView, segmentsView := Apply(sampleOrders(), sampleSegments(), sel)

	assert.Equal(t, 2, ordersView.Len(), "o1 and o3 fall inside January")
	assert.Equal(t, 1, segmentsView.Len())
	assert.Equal(t, "a", segmentsView.Segments[0].CustomerID)
}

func TestApplyBoundsInclusive(t *testing.T) {
	sel := Selection{
		From:       ts("2024-01-01"),
		To:         ts("2024-02-01"),
		Categories: []string{"electronics"},
	}

	ordersView, _ := Apply(sampleOrders(), sampleSegments(), sel)

	assert.Equal(t, 2, ordersView.Len(), "both the from and to dates are included")
}

func TestApplyEmptyCategoriesYieldsEmptyView(t *testing.T) {
	// Strict intersection: no categories selected means nothing matches,
	// regardless of the date range.
	sel := Selection{
		From:       ts("2024-01-01"),
		To:         ts("2024-12-31"),
		Categories: nil,
		Segments:   []string{models.SegmentLoyal},
	}

	ordersView, _ := Apply(sampleOrders(), sampleSegments(), sel)

	assert.Equal(t, 0, ordersView.Len())
}

func TestApplyInvertedRangeYieldsEmptyView(t *testing.T) {
	sel := Selection{
		From:       ts("2024-03-01"),
		To:         ts("2024-01-01"),
		Categories: []string{"electronics"},
	}

	ordersView, _ := Apply(sampleOrders(), sampleSegments(), sel)

	assert.Equal(t, 0, ordersView.Len(), "inverted range is degenerate but valid")
}

func TestApplyIdempotent(t *testing.T) {
	sel := Selection{
		From:       ts("2024-01-01"),
		To:         ts("2024-02-15"),
		Categories: []string{"electronics", "furniture_decor"},
		Segments:   []string{models.SegmentLoyal, models.SegmentPotential},
	}

	ordersView, segmentsView := Apply(sampleOrders(), sampleSegments(), sel)
	ordersAgain, segmentsAgain := Apply(ordersView, segmentsView, sel)

	assert.Equal(t, ordersView.Orders, ordersAgain.Orders)
	assert.Equal(t, segmentsView.Segments, segmentsAgain.Segments)
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	orders := sampleOrders()
	segments := sampleSegments()

	sel := Selection{
		From:       ts("2024-01-01"),
		To:         ts("2024-01-02"),
		Categories: []string{"electronics"},
		Segments:   []string{models.SegmentLost},
	}

	Apply(orders, segments, sel)

	assert.Equal(t, 4, orders.Len())
	assert.Equal(t, 3, segments.Len())
}

func TestClampThreshold(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, MinChurnThreshold},
		{30, 30},
		{180, 180},
		{365, 365},
		{1000, MaxChurnThreshold},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClampThreshold(tt.input))
	}
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection(ts("2024-01-01"), ts("2024-06-30"))

	assert.Equal(t, ts("2024-01-01"), sel.From)
	assert.Equal(t, ts("2024-06-30"), sel.To)
	assert.Equal(t, DefaultChurnThreshold, sel.ChurnThreshold)
	assert.Contains(t, sel.Segments, models.SegmentLoyal)
	assert.Contains(t, sel.Categories, "electronics")
}
