package chart

import (
	"fmt"
	"math"

	"github.com/openclimatedata/ghgdash/internal/dataset"
)

// Overview builds the scenario-comparison line chart: one line per
// source-scenario for the selected (country, category, entity), no stacking.
//
// Scenarios from the preferred releases lead the legend; a line whose valid
// observations enclose an internal gap is drawn with markers so the
// discontinuity stays visible.
func Overview(store *dataset.Store, countryName, countryCode, category, entity string, scenarios []string, visible map[string]bool) (*Figure, error) {
	unit, err := store.Unit(entity)
	if err != nil {
		return nil, err
	}
	years := store.Years()

	fig := &Figure{
		Layout: Layout{
			Title:             fmt.Sprintf("%s, %s, %s", countryName, category, entity),
			XAxis:             Axis{Autorange: true},
			YAxis:             Axis{Title: unit, Autorange: true},
			LegendOrientation: "h",
			Margin:            defaultMargin,
		},
	}

	for _, scen := range orderScenarios(scenarios) {
		values, err := store.Series(entity, countryCode, category, scen)
		if err != nil {
			return nil, fmt.Errorf("overview slice for %q: %w", scen, err)
		}

		mode := ModeLines
		if hasInternalGap(values) {
			mode = ModeLinesMarkers
		}

		vis, ok := visible[scen]
		if !ok {
			vis = true
		}

		fig.Data = append(fig.Data, Trace{
			Name:          scen,
			X:             years,
			Y:             maskMissing(values),
			Mode:          mode,
			Line:          scenarioStyles[scen],
			HoverTemplate: hoverSci,
			Visible:       vis,
			ShowLegend:    true,
		})
	}
	return fig, nil
}

// hasInternalGap reports whether a series is missing any observation strictly
// between its first and last valid ones.
func hasInternalGap(values []float64) bool {
	first, last := -1, -1
	for i, v := range values {
		if !math.IsNaN(v) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	for i := first + 1; first >= 0 && i < last; i++ {
		if math.IsNaN(values[i]) {
			return true
		}
	}
	return false
}

// maskMissing converts NaNs into nil points the renderer breaks the line at.
func maskMissing(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		v := v
		out[i] = &v
	}
	return out
}
