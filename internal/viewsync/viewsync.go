// Package viewsync propagates axis-range changes between the three charts.
//
// The propagation graph is deliberately asymmetric so no update cycle can
// form: the overview's range-slider pushes its x-window one-way into both
// split charts, the two split charts mirror each other's full zoom box, and
// nothing ever pushes a range back into the overview.
package viewsync

// Chart identifies one of the three coordinated charts.
type Chart int

const (
	Overview Chart = iota
	CategorySplit
	EntitySplit
	numCharts
)

func (c Chart) String() string {
	switch c {
	case Overview:
		return "overview"
	case CategorySplit:
		return "category-split"
	case EntitySplit:
		return "entity-split"
	}
	return "unknown"
}

// Relayout is the axis payload of a single user pan/zoom/reset event. A nil
// range means the event did not carry that axis. An event with no ranges and
// no autorange flag is a transient UI mode switch (drag-mode toggles and the
// like) and must not propagate.
type Relayout struct {
	XRange    *[2]float64
	YRange    *[2]float64
	Autorange bool
}

// IsNoop reports whether the event carries nothing worth propagating.
func (r Relayout) IsNoop() bool {
	return r.XRange == nil && r.YRange == nil && !r.Autorange
}

// Ranges is one chart's stored view window. Auto means the renderer computes
// the bounds; explicit ranges override per axis.
type Ranges struct {
	X    *[2]float64
	Y    *[2]float64
	Auto bool
}

// Store holds the transient per-chart view state for one session. It is not
// persisted; a chart's entry resets to autorange on its next full rebuild.
type Store struct {
	ranges [numCharts]Ranges
}

// NewStore starts every chart on autorange.
func NewStore() *Store {
	s := &Store{}
	for c := Chart(0); c < numCharts; c++ {
		s.ranges[c] = Ranges{Auto: true}
	}
	return s
}

// Get returns the stored view window for a chart.
func (s *Store) Get(c Chart) Ranges {
	return s.ranges[c]
}

// Reset puts a chart back on autorange, as happens on a full rebuild.
func (s *Store) Reset(c Chart) {
	s.ranges[c] = Ranges{Auto: true}
}

// Apply records a user range change on the source chart and distributes it to
// the sibling charts per the propagation rules. It returns the charts whose
// stored window changed as a result, the source excluded; no-op events return
// nothing and change nothing.
func (s *Store) Apply(src Chart, ev Relayout) []Chart {
	if ev.IsNoop() {
		return nil
	}

	switch src {
	case Overview:
		if ev.Autorange {
			s.ranges[Overview] = Ranges{Auto: true}
			s.ranges[CategorySplit] = Ranges{Auto: true}
			s.ranges[EntitySplit] = Ranges{Auto: true}
			return []Chart{CategorySplit, EntitySplit}
		}
		// X comes from the overview's slider; each split chart keeps its
		// own y.
		s.ranges[Overview].Auto = false
		s.ranges[Overview].X = copyRange(ev.XRange)
		for _, c := range []Chart{CategorySplit, EntitySplit} {
			s.ranges[c].Auto = false
			s.ranges[c].X = copyRange(ev.XRange)
		}
		return []Chart{CategorySplit, EntitySplit}

	case CategorySplit:
		s.record(CategorySplit, ev)
		s.ranges[EntitySplit] = cloneRanges(s.ranges[CategorySplit])
		return []Chart{EntitySplit}

	case EntitySplit:
		s.record(EntitySplit, ev)
		s.ranges[CategorySplit] = cloneRanges(s.ranges[EntitySplit])
		return []Chart{CategorySplit}
	}
	return nil
}

func cloneRanges(r Ranges) Ranges {
	return Ranges{X: copyRange(r.X), Y: copyRange(r.Y), Auto: r.Auto}
}

// record stores a split chart's own zoom box.
func (s *Store) record(c Chart, ev Relayout) {
	if ev.Autorange {
		s.ranges[c] = Ranges{Auto: true}
		return
	}
	s.ranges[c].Auto = false
	if ev.XRange != nil {
		s.ranges[c].X = copyRange(ev.XRange)
	}
	if ev.YRange != nil {
		s.ranges[c].Y = copyRange(ev.YRange)
	}
}

func copyRange(r *[2]float64) *[2]float64 {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
