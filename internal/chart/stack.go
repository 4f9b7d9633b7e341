package chart

import "math"

// stackedTraces renders breakdown series as two independent stacks: positive
// contributions pile up above zero, negative contributions below. Each series
// part becomes a pair of traces — an invisible baseline at the running
// cumulative, then the visible boundary filled down to it — plus one unfilled
// line for the row-wise total across all series.
//
// Years where every series is missing are dropped from the traces; the
// caller keeps the axis range spanning the full window.
func stackedTraces(years []int, series []Series) []Trace {
	plotIdx := rowsWithData(series)
	if len(plotIdx) == 0 {
		return nil
	}

	x := make([]int, len(plotIdx))
	for i, yi := range plotIdx {
		x[i] = years[yi]
	}

	cumPos := make([]float64, len(plotIdx))
	cumNeg := make([]float64, len(plotIdx))
	total := make([]*float64, len(plotIdx))

	var traces []Trace
	for si, s := range series {
		color := qualitativePalette[si%len(qualitativePalette)]

		pos := make([]float64, len(plotIdx))
		neg := make([]float64, len(plotIdx))
		hasPos, hasNeg := false, false
		for i, yi := range plotIdx {
			v := s.Values[yi]
			if math.IsNaN(v) {
				continue
			}
			if v >= 0 {
				pos[i] = v
				hasPos = hasPos || v > 0
			} else {
				neg[i] = v
				hasNeg = true
			}
			if total[i] == nil {
				total[i] = new(float64)
			}
			*total[i] += v
		}

		legendShown := false
		if hasPos {
			traces = append(traces, baseline(x, cumPos))
			for i := range cumPos {
				cumPos[i] += pos[i]
			}
			traces = append(traces, boundary(x, cumPos, s.Name, color, true))
			legendShown = true
		}
		if hasNeg {
			traces = append(traces, baseline(x, cumNeg))
			for i := range cumNeg {
				cumNeg[i] += neg[i]
			}
			traces = append(traces, boundary(x, cumNeg, s.Name, color, !legendShown))
		}
	}

	traces = append(traces, Trace{
		Name:          "total",
		X:             x,
		Y:             total,
		Mode:          ModeLines,
		Line:          LineStyle{Color: "#000000", Width: 2},
		HoverTemplate: hoverSci,
		Visible:       true,
		ShowLegend:    true,
	})
	return traces
}

// rowsWithData returns the year indices where at least one series has a
// non-missing observation.
func rowsWithData(series []Series) []int {
	if len(series) == 0 {
		return nil
	}
	var idx []int
	for yi := range series[0].Values {
		for _, s := range series {
			if !math.IsNaN(s.Values[yi]) {
				idx = append(idx, yi)
				break
			}
		}
	}
	return idx
}

// baseline is the invisible lower boundary the next filled trace fills down
// to.
func baseline(x []int, values []float64) Trace {
	return Trace{
		X:       x,
		Y:       toPointers(values),
		Mode:    ModeLines,
		Line:    LineStyle{Width: 0},
		Visible: true,
	}
}

// boundary is the visible upper (or lower, for the negative stack) edge of
// one series' contribution, filled to the preceding baseline.
func boundary(x []int, cum []float64, name, color string, legend bool) Trace {
	return Trace{
		Name:          name,
		X:             x,
		Y:             toPointers(cum),
		Mode:          ModeLines,
		Fill:          FillToPrevious,
		Line:          LineStyle{Color: color, Width: 1},
		HoverTemplate: hoverSci,
		Visible:       true,
		ShowLegend:    legend,
	}
}

func toPointers(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		v := v
		out[i] = &v
	}
	return out
}

// allMissing reports whether every value of every series is NaN.
func allMissing(series []Series) bool {
	for _, s := range series {
		for _, v := range s.Values {
			if !math.IsNaN(v) {
				return false
			}
		}
	}
	return true
}
