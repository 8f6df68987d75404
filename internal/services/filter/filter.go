// Package filter turns a user's control selections into filtered views over
// the loaded order and segment tables.
package filter

import (
	"errors"
	"time"

	"shopdash/internal/models"
)

// ErrInvalidSelection indicates malformed filter input (an unparseable
// date). Surfaced to the UI layer; the pipeline does not run.
var ErrInvalidSelection = errors.New("invalid selection")

// Churn-threshold slider bounds and default, in days
const (
	MinChurnThreshold     = 30
	MaxChurnThreshold     = 365
	DefaultChurnThreshold = 180
)

// Selection carries the state of the sidebar controls
type Selection struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	Categories     []string  `json:"categories"`
	Segments       []string  `json:"segments"`
	ChurnThreshold int       `json:"churn_threshold"`
}

// DefaultSelection returns the recommended starting selection over the given
// dataset bounds
func DefaultSelection(minDate, maxDate time.Time) Selection {
	return Selection{
		From:           minDate,
		To:             maxDate,
		Categories:     []string{"electronics", "furniture_decor", "health_beauty"},
		Segments:       []string{models.SegmentLoyal, models.SegmentPotential},
		ChurnThreshold: DefaultChurnThreshold,
	}
}

// ClampThreshold pins a churn threshold to the slider bounds
func ClampThreshold(days int) int {
	if days < MinChurnThreshold {
		return MinChurnThreshold
	}
	if days > MaxChurnThreshold {
		return MaxChurnThreshold
	}
	return days
}

// Apply produces the filtered order and segment views for a selection.
//
// The two views are independent: the order view is restricted by date range
// (both bounds inclusive) and category set, the segment view by segment set.
// An empty category or segment set yields an empty view rather than "all" —
// strict intersection semantics, so unfiltered data is never shown silently.
// An inverted date range is a degenerate but valid selection and yields an
// empty order view.
//
// Pure function of its inputs; the source sets are never mutated. Applying
// the same selection to an already-filtered view returns the same view.
func Apply(orders *models.OrderSet, segments *models.SegmentSet, sel Selection) (*models.OrderSet, *models.SegmentSet) {
	ordersView := orders.
		FilterByDateRange(sel.From, sel.To).
		FilterByCategories(sel.Categories)

	segmentsView := segments.FilterBySegments(sel.Segments)

	return ordersView, segmentsView
}
