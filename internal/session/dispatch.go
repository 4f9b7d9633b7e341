package session

import (
	"context"
	"fmt"

	"github.com/openclimatedata/ghgdash/internal/chart"
	"github.com/openclimatedata/ghgdash/internal/viewsync"
)

// Event is one discrete user interaction. The concrete types form a closed
// tagged union; Handle dispatches over all of them and rejects anything else,
// so an unhandled interaction shows up in tests instead of being silently
// dropped.
type Event interface {
	isEvent()
}

// StepCountry advances the country dropdown by Steps (negative steps back).
type StepCountry struct{ Steps int }

// StepCategory advances the category dropdown.
type StepCategory struct{ Steps int }

// StepEntity advances the entity dropdown.
type StepEntity struct{ Steps int }

// SelectCountry picks a country by display name.
type SelectCountry struct{ Name string }

// SelectCategory picks a category by code.
type SelectCategory struct{ Code string }

// SelectEntity picks an entity by name.
type SelectEntity struct{ Name string }

// SelectScenario picks a source-scenario from the current options.
type SelectScenario struct{ Value string }

// ToggleLine is a legend click on one overview line.
type ToggleLine struct {
	Line    string
	Visible bool
}

// Relayout is a pan/zoom/reset on one chart.
type Relayout struct {
	Source viewsync.Chart
	Change viewsync.Relayout
}

// SaveNote appends an annotation for the current selection.
type SaveNote struct{ Text string }

func (StepCountry) isEvent()    {}
func (StepCategory) isEvent()   {}
func (StepEntity) isEvent()     {}
func (SelectCountry) isEvent()  {}
func (SelectCategory) isEvent() {}
func (SelectEntity) isEvent()   {}
func (SelectScenario) isEvent() {}
func (ToggleLine) isEvent()     {}
func (Relayout) isEvent()       {}
func (SaveNote) isEvent()       {}

// Update is what one handled event changed: rebuilt chart specifications
// (nil means the chart is unchanged), propagated view ranges, and a note
// status line for the save flow. Token is the ordering token the rebuilds
// were computed at.
type Update struct {
	Token uint64

	Overview      *chart.Figure
	CategorySplit *chart.Figure
	EntitySplit   *chart.Figure

	RangesChanged []viewsync.Chart
	NoteStatus    string
}

// Handle processes one event to completion. Events run strictly one at a
// time per session; the caller serializes.
//
// For selection changes the ordering is fixed: apply the dimension change,
// refresh the dependent scenario options, and only then rebuild the charts,
// since the split charts depend on the refreshed scenario selection.
func (s *Session) Handle(ctx context.Context, ev Event) (*Update, error) {
	switch ev := ev.(type) {
	case StepCountry:
		s.Step(Country, ev.Steps)
		return s.refreshAndRebuild()
	case StepCategory:
		s.Step(Category, ev.Steps)
		return s.refreshAndRebuild()
	case StepEntity:
		s.Step(Entity, ev.Steps)
		return s.refreshAndRebuild()

	case SelectCountry:
		if err := s.Set(Country, ev.Name); err != nil {
			return nil, err
		}
		return s.refreshAndRebuild()
	case SelectCategory:
		if err := s.Set(Category, ev.Code); err != nil {
			return nil, err
		}
		return s.refreshAndRebuild()
	case SelectEntity:
		if err := s.Set(Entity, ev.Name); err != nil {
			return nil, err
		}
		return s.refreshAndRebuild()

	case SelectScenario:
		if err := s.SetScenario(ev.Value); err != nil {
			return nil, err
		}
		// The overview draws every scenario; only the splits pin one.
		return s.rebuild(false, true, true)

	case ToggleLine:
		s.ToggleVisibility(ev.Line, ev.Visible)
		return s.rebuild(true, false, false)

	case Relayout:
		return &Update{
			Token:         s.token,
			RangesChanged: s.ranges.Apply(ev.Source, ev.Change),
		}, nil

	case SaveNote:
		return s.saveNote(ctx, ev.Text), nil
	}
	return nil, fmt.Errorf("unhandled event type %T", ev)
}

// Rebuild recomputes all three charts for the current selection without
// changing it. Used when a client (re)attaches and needs the full view.
func (s *Session) Rebuild() (*Update, error) {
	return s.rebuild(true, true, true)
}

// refreshAndRebuild is the pipeline for country/category/entity
// changes: option refresh first, chart rebuilds strictly after.
func (s *Session) refreshAndRebuild() (*Update, error) {
	s.RefreshScenarioOptions()
	return s.rebuild(true, true, true)
}

func (s *Session) rebuild(overview, category, entity bool) (*Update, error) {
	u := &Update{Token: s.token}
	var err error

	if overview {
		u.Overview, err = chart.Overview(s.store, s.CountryName(), s.CountryCode(),
			s.CategoryCode(), s.Entity(), s.scenarios, s.visible)
		if err != nil {
			return nil, fmt.Errorf("rebuilding overview: %w", err)
		}
		s.ranges.Reset(viewsync.Overview)
	}
	if category {
		u.CategorySplit, err = chart.CategorySplit(s.store, s.CountryCode(),
			s.CategoryCode(), s.Entity(), s.Scenario())
		if err != nil {
			return nil, fmt.Errorf("rebuilding category split: %w", err)
		}
		s.ranges.Reset(viewsync.CategorySplit)
	}
	if entity {
		u.EntitySplit, err = chart.EntitySplit(s.store, s.CountryCode(),
			s.CategoryCode(), s.Entity(), s.Scenario())
		if err != nil {
			return nil, fmt.Errorf("rebuilding entity split: %w", err)
		}
		s.ranges.Reset(viewsync.EntitySplit)
	}
	return u, nil
}

// saveNote appends an annotation. Save failures are user-visible status
// text, not errors; a broken notes store must not take the charts down.
func (s *Session) saveNote(ctx context.Context, text string) *Update {
	u := &Update{Token: s.token}
	if s.notes == nil {
		u.NoteStatus = "notes are disabled (no notes store configured)"
		return u
	}
	err := s.notes.Append(ctx, s.CountryCode(), s.CategoryCode(), s.Entity(), text)
	if err != nil {
		u.NoteStatus = fmt.Sprintf("could not save note: %v", err)
		return u
	}
	u.NoteStatus = fmt.Sprintf("note saved for %s / %s / %s",
		s.CountryCode(), s.CategoryCode(), s.Entity())
	return u
}
