// Package chart turns a selection plus the dataset facade into renderer-ready
// chart specifications. The three builders (overview, category split, entity
// split) are pure functions; they hold no state and may run concurrently over
// the read-only dataset.
package chart

// Trace modes and fill styles understood by the renderer.
const (
	ModeLines        = "lines"
	ModeLinesMarkers = "lines+markers"
	FillToPrevious   = "tonexty"
)

// hoverSci shows point values in scientific notation.
const hoverSci = "%{y:.3e}"

// LineStyle is the renderer's per-trace line styling. The zero value lets the
// renderer pick its own color cycle.
type LineStyle struct {
	Color string  `json:"color,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Trace is one drawable series. Y entries are nil where the observation is
// missing; the renderer breaks the line there.
type Trace struct {
	Name          string     `json:"name"`
	X             []int      `json:"x"`
	Y             []*float64 `json:"y"`
	Mode          string     `json:"mode,omitempty"`
	Fill          string     `json:"fill,omitempty"`
	Line          LineStyle  `json:"line"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
	Visible       bool       `json:"visible"`
	ShowLegend    bool       `json:"showlegend"`
}

// Axis carries either an explicit range or an autorange flag.
type Axis struct {
	Title     string      `json:"title,omitempty"`
	Range     *[2]float64 `json:"range,omitempty"`
	Autorange bool        `json:"autorange,omitempty"`
}

// Margin is the figure margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Layout is the figure-level renderer configuration.
type Layout struct {
	Title             string `json:"title,omitempty"`
	XAxis             Axis   `json:"xaxis"`
	YAxis             Axis   `json:"yaxis"`
	LegendOrientation string `json:"legend_orientation,omitempty"`
	Margin            Margin `json:"margin"`
}

// Figure is a complete chart specification handed to the renderer.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// defaultMargin matches the compact layout of the explorer's chart grid.
var defaultMargin = Margin{L: 60, R: 20, T: 40, B: 40}

// Series is one breakdown input series aligned to a shared year index, NaN
// for missing observations.
type Series struct {
	Name   string
	Values []float64
}
