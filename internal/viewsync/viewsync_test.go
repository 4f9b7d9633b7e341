package viewsync

import "testing"

func rng(a, b float64) *[2]float64 { return &[2]float64{a, b} }

func TestOverviewSliderPushesXToBothSplits(t *testing.T) {
	s := NewStore()
	updated := s.Apply(Overview, Relayout{XRange: rng(1990, 2010)})
	if len(updated) != 2 {
		t.Fatalf("updated = %v, want both split charts", updated)
	}
	for _, c := range []Chart{CategorySplit, EntitySplit} {
		got := s.Get(c)
		if got.Auto || got.X == nil || *got.X != [2]float64{1990, 2010} {
			t.Errorf("%s ranges = %+v, want x [1990 2010]", c, got)
		}
		if got.Y != nil {
			t.Errorf("%s y-range = %v, want local (nil)", c, got.Y)
		}
	}
}

func TestOverviewAutorangeResetsBoth(t *testing.T) {
	s := NewStore()
	s.Apply(Overview, Relayout{XRange: rng(1990, 2010)})
	s.Apply(Overview, Relayout{Autorange: true})
	for _, c := range []Chart{Overview, CategorySplit, EntitySplit} {
		if got := s.Get(c); !got.Auto {
			t.Errorf("%s not reset to autorange: %+v", c, got)
		}
	}
}

func TestCategoryZoomMirrorsToEntityOnly(t *testing.T) {
	s := NewStore()
	updated := s.Apply(CategorySplit, Relayout{XRange: rng(1980, 2000), YRange: rng(0, 5000)})
	if len(updated) != 1 || updated[0] != EntitySplit {
		t.Fatalf("updated = %v, want [entity-split]", updated)
	}

	got := s.Get(EntitySplit)
	if got.Auto || got.X == nil || got.Y == nil {
		t.Fatalf("entity ranges = %+v, want explicit x and y", got)
	}
	if *got.X != [2]float64{1980, 2000} || *got.Y != [2]float64{0, 5000} {
		t.Errorf("entity ranges = [%v %v], want the category chart's own box", *got.X, *got.Y)
	}

	// Zooming a split chart never touches the overview.
	if got := s.Get(Overview); !got.Auto {
		t.Errorf("overview range changed by category zoom: %+v", got)
	}
}

func TestEntityZoomMirrorsToCategory(t *testing.T) {
	s := NewStore()
	s.Apply(EntitySplit, Relayout{XRange: rng(1960, 1990), YRange: rng(-10, 10)})
	got := s.Get(CategorySplit)
	if got.Auto || got.X == nil || *got.X != [2]float64{1960, 1990} {
		t.Errorf("category ranges = %+v, want the entity chart's box", got)
	}
	if got := s.Get(Overview); !got.Auto {
		t.Errorf("overview range changed by entity zoom: %+v", got)
	}
}

func TestNoopEventPropagatesNothing(t *testing.T) {
	s := NewStore()
	s.Apply(CategorySplit, Relayout{XRange: rng(1980, 2000), YRange: rng(0, 1)})
	before := s.Get(EntitySplit)

	// Drag-mode toggles arrive as relayout events without axis keys.
	if updated := s.Apply(Overview, Relayout{}); updated != nil {
		t.Fatalf("no-op event updated %v", updated)
	}
	after := s.Get(EntitySplit)
	if *before.X != *after.X || *before.Y != *after.Y {
		t.Error("no-op event mutated stored ranges")
	}
}

func TestMirroredRangesAreNotAliased(t *testing.T) {
	s := NewStore()
	s.Apply(CategorySplit, Relayout{XRange: rng(1980, 2000), YRange: rng(0, 1)})
	s.Apply(EntitySplit, Relayout{YRange: rng(5, 6)})
	if got := s.Get(EntitySplit); *got.Y != [2]float64{5, 6} {
		t.Errorf("entity y = %v", *got.Y)
	}
	// The earlier mirror into entity must not have shared pointers with the
	// category store.
	s.Apply(CategorySplit, Relayout{YRange: rng(7, 8)})
	if got := s.Get(CategorySplit); *got.Y != [2]float64{7, 8} {
		t.Errorf("category y = %v", *got.Y)
	}
}

func TestResetOnRebuild(t *testing.T) {
	s := NewStore()
	s.Apply(CategorySplit, Relayout{XRange: rng(1980, 2000)})
	s.Reset(CategorySplit)
	if got := s.Get(CategorySplit); !got.Auto {
		t.Errorf("reset chart not on autorange: %+v", got)
	}
}
