package models

// ChartData represents one trace of a Plotly chart
type ChartData struct {
	Type   string      `json:"type"` // bar, pie, scatter, heatmap, treemap
	X      interface{} `json:"x,omitempty"`
	Y      interface{} `json:"y,omitempty"`
	Z      interface{} `json:"z,omitempty"`      // for heatmaps
	Labels []string    `json:"labels,omitempty"` // for pie/treemap charts
	Values []float64   `json:"values,omitempty"` // for pie/treemap charts
	Text   []string    `json:"text,omitempty"`   // hover text
	Name   string      `json:"name,omitempty"`   // series name
	Mode   string      `json:"mode,omitempty"`   // for scatter: lines, markers
}

// ChartLayout defines Plotly layout options
type ChartLayout struct {
	Title      string `json:"title,omitempty"`
	XAxisTitle string `json:"xaxis_title,omitempty"`
	YAxisTitle string `json:"yaxis_title,omitempty"`
	ShowLegend bool   `json:"showlegend,omitempty"`
}

// ChartResponse wraps chart traces with layout options. Empty is the
// zero-rows signal: the rendering layer shows a placeholder instead of a
// blank chart, and no error is raised.
type ChartResponse struct {
	Data   []ChartData `json:"data"`
	Layout ChartLayout `json:"layout,omitempty"`
	Empty  bool        `json:"empty"`
}

// ScatterPoint is one customer on the frequency/spending scatter
type ScatterPoint struct {
	X     int     `json:"x"` // order frequency
	Y     float64 `json:"y"` // total spending
	Label string  `json:"label"`
	ID    string  `json:"id"`
}

// TreemapEntry is one category slice of the revenue treemap
type TreemapEntry struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// HeatmapGrid is the dense activity matrix: one row per date, one column
// per category, missing cells filled with 0
type HeatmapGrid struct {
	Dates      []string `json:"dates"`
	Categories []string `json:"categories"`
	Counts     [][]int  `json:"counts"`
}
