package session

import (
	"context"
	"testing"

	"github.com/openclimatedata/ghgdash/internal/dataset"
	"github.com/openclimatedata/ghgdash/internal/notes"
	"github.com/openclimatedata/ghgdash/internal/viewsync"
)

func rng(a, b float64) *[2]float64 { return &[2]float64{a, b} }

func TestHandleStepRebuildsAllChartsAfterRefresh(t *testing.T) {
	s := newFixtureSession(t)
	before := s.Token()

	u, err := s.Handle(context.Background(), StepCountry{Steps: 1})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if u.Token != before+1 {
		t.Errorf("update token = %d, want post-refresh %d", u.Token, before+1)
	}
	if u.Overview == nil || u.CategorySplit == nil || u.EntitySplit == nil {
		t.Fatal("country change must rebuild all three charts")
	}
}

func TestHandleScenarioSelectRebuildsSplitsOnly(t *testing.T) {
	s := newFixtureSession(t)
	u, err := s.Handle(context.Background(), SelectScenario{Value: dataset.FixtureHISTTP})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if u.Overview != nil {
		t.Error("scenario select should not rebuild the overview")
	}
	if u.CategorySplit == nil || u.EntitySplit == nil {
		t.Error("scenario select must rebuild both split charts")
	}
}

func TestHandleLegendToggle(t *testing.T) {
	s := newFixtureSession(t)
	u, err := s.Handle(context.Background(), ToggleLine{Line: dataset.FixtureHISTTP, Visible: false})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if u.Overview == nil {
		t.Fatal("legend toggle must rebuild the overview")
	}
	for _, tr := range u.Overview.Data {
		switch tr.Name {
		case dataset.FixtureHISTTP:
			if tr.Visible {
				t.Error("toggled line still visible")
			}
		default:
			if !tr.Visible {
				t.Errorf("line %q lost visibility from an unrelated toggle", tr.Name)
			}
		}
	}
}

func TestHandleRelayoutPropagates(t *testing.T) {
	s := newFixtureSession(t)
	u, err := s.Handle(context.Background(), Relayout{
		Source: viewsync.CategorySplit,
		Change: viewsync.Relayout{XRange: rng(1990, 2010), YRange: rng(0, 100)},
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(u.RangesChanged) != 1 || u.RangesChanged[0] != viewsync.EntitySplit {
		t.Fatalf("ranges changed = %v, want [entity-split]", u.RangesChanged)
	}
	if got := s.Ranges().Get(viewsync.Overview); !got.Auto {
		t.Error("overview range must not change on a split-chart zoom")
	}
}

func TestHandleRelayoutNoopChangesNothing(t *testing.T) {
	s := newFixtureSession(t)
	u, err := s.Handle(context.Background(), Relayout{Source: viewsync.Overview})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(u.RangesChanged) != 0 {
		t.Fatalf("drag-mode toggle propagated to %v", u.RangesChanged)
	}
	if u.Overview != nil || u.CategorySplit != nil || u.EntitySplit != nil {
		t.Error("no-op relayout must not rebuild charts")
	}
}

func TestSelectionChangeResetsStoredRanges(t *testing.T) {
	s := newFixtureSession(t)
	if _, err := s.Handle(context.Background(), Relayout{
		Source: viewsync.CategorySplit,
		Change: viewsync.Relayout{XRange: rng(1990, 2010)},
	}); err != nil {
		t.Fatalf("relayout: %v", err)
	}
	if _, err := s.Handle(context.Background(), StepEntity{Steps: 1}); err != nil {
		t.Fatalf("step: %v", err)
	}
	for c := viewsync.Overview; c <= viewsync.EntitySplit; c++ {
		if got := s.Ranges().Get(c); !got.Auto {
			t.Errorf("%s range not reset on full rebuild: %+v", c, got)
		}
	}
}

func TestHandleSaveNote(t *testing.T) {
	ns, err := notes.Open(":memory:")
	if err != nil {
		t.Fatalf("open notes: %v", err)
	}
	defer ns.Close()

	s, err := New(dataset.Fixture(), ns, DefaultConfig)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	ctx := context.Background()
	u, err := s.Handle(ctx, SaveNote{Text: "first"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if u.NoteStatus == "" {
		t.Error("save must report a status line")
	}

	// Append-only: a second save for the same selection adds a row.
	if _, err := s.Handle(ctx, SaveNote{Text: "second"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	all, err := ns.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read notes: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d notes, want 2 (no dedupe)", len(all))
	}
	if all[0].Country != "EARTH" || all[0].Entity != "KYOTOGHG (AR6GWP100)" {
		t.Errorf("note keyed as %+v", all[0])
	}
}

func TestHandleSelectUnknownValueFails(t *testing.T) {
	s := newFixtureSession(t)
	if _, err := s.Handle(context.Background(), SelectCategory{Code: "M.NOPE"}); err == nil {
		t.Fatal("expected lookup failure for unknown category")
	}
}
