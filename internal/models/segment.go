package models

import "sort"

// Segment labels assigned by the upstream segmentation job
const (
	SegmentLoyal       = "Loyal Customers"
	SegmentPotential   = "Potential Loyalists"
	SegmentAtRisk      = "At Risk Customers"
	SegmentHibernating = "Hibernating Customers"
	SegmentLost        = "Lost Customers"
)

// SegmentGroup collects related segment labels for the sidebar controls
type SegmentGroup struct {
	Name     string   `json:"name"`
	Segments []string `json:"segments"`
}

// SegmentGroups returns the segment labels grouped the way the dashboard
// presents them
func SegmentGroups() []SegmentGroup {
	return []SegmentGroup{
		{Name: "High Value", Segments: []string{SegmentLoyal, SegmentPotential}},
		{Name: "At Risk", Segments: []string{SegmentAtRisk, SegmentHibernating}},
		{Name: "Inactive", Segments: []string{SegmentLost}},
	}
}

// Segment represents one customer's segmentation row
type Segment struct {
	CustomerID    string  `json:"customer_unique_id"`
	Segment       string  `json:"segment"`
	Frequency     int     `json:"frequency"`
	TotalSpending float64 `json:"total_spending"`
}

// SegmentSet wraps a slice of segment rows with filtering methods
type SegmentSet struct {
	Segments []Segment
}

// NewSegmentSet creates a new SegmentSet from a slice
func NewSegmentSet(segments []Segment) *SegmentSet {
	return &SegmentSet{Segments: segments}
}

// Len returns the number of segment rows
func (ss *SegmentSet) Len() int {
	return len(ss.Segments)
}

// FilterBySegments returns rows whose label is in the given set
func (ss *SegmentSet) FilterBySegments(labels []string) *SegmentSet {
	result := &SegmentSet{}
	if len(labels) == 0 {
		return result
	}

	wanted := make(map[string]bool, len(labels))
	for _, l := range labels {
		wanted[l] = true
	}

	for _, s := range ss.Segments {
		if wanted[s.Segment] {
			result.Segments = append(result.Segments, s)
		}
	}
	return result
}

// Labels returns a sorted list of distinct segment labels present
func (ss *SegmentSet) Labels() []string {
	labelMap := make(map[string]bool)
	for _, s := range ss.Segments {
		labelMap[s.Segment] = true
	}

	labels := make([]string, 0, len(labelMap))
	for l := range labelMap {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Copy creates a shallow copy of the SegmentSet
func (ss *SegmentSet) Copy() *SegmentSet {
	copied := make([]Segment, len(ss.Segments))
	copy(copied, ss.Segments)
	return &SegmentSet{Segments: copied}
}
