// Package session owns the per-user selection state of the explorer: the
// current indices into the country/category/entity/source-scenario option
// lists, the legend visibility map, the per-chart view ranges, and the
// ordering token that keeps dependent chart rebuilds behind option refreshes.
//
// One Session serves one connected user. Sessions share the read-only dataset
// store but never each other's state.
package session

import (
	"errors"
	"fmt"

	"github.com/openclimatedata/ghgdash/internal/chart"
	"github.com/openclimatedata/ghgdash/internal/dataset"
	"github.com/openclimatedata/ghgdash/internal/notes"
	"github.com/openclimatedata/ghgdash/internal/refdata"
	"github.com/openclimatedata/ghgdash/internal/viewsync"
)

// Dimension selects one of the stepped dropdowns.
type Dimension int

const (
	Country Dimension = iota
	Category
	Entity
)

func (d Dimension) String() string {
	switch d {
	case Country:
		return "country"
	case Category:
		return "category"
	case Entity:
		return "entity"
	}
	return "unknown"
}

// ErrNotAnOption signals a selection value absent from its option list. This
// is a programming error in the caller, not a data condition; it is never
// recovered silently.
var ErrNotAnOption = errors.New("value not in option list")

// Config is the startup default selection.
type Config struct {
	DefaultCountry  string // ISO3 code, e.g. "EARTH"
	DefaultCategory string // category code, e.g. "M.0.EL"
	DefaultEntity   string // entity name, e.g. "KYOTOGHG (AR6GWP100)"
}

// DefaultConfig is the stock explorer start view: global aggregate, national
// total excluding LULUCF, all Kyoto gases under the current GWP vintage.
var DefaultConfig = Config{
	DefaultCountry:  "EARTH",
	DefaultCategory: "M.0.EL",
	DefaultEntity:   "KYOTOGHG (AR6GWP100)",
}

// Session is the explorer's mutable per-user state.
type Session struct {
	store *dataset.Store
	notes *notes.Store

	countryNames []string          // sorted display names
	countryCode  map[string]string // display name -> ISO3
	categories   []string          // dataset order
	entities     []string          // dataset order
	scenarios    []string          // dependent options, recomputed per selection

	countryIdx  int
	categoryIdx int
	entityIdx   int
	scenarioIdx int

	visible map[string]bool
	ranges  *viewsync.Store
	token   uint64
}

// New creates a session over a loaded dataset. The default country must exist
// in the dataset; its absence is a configuration error, not something to
// paper over by silently selecting an unrelated country.
func New(store *dataset.Store, noteStore *notes.Store, cfg Config) (*Session, error) {
	if cfg.DefaultCountry == "" {
		cfg = DefaultConfig
	}
	if !store.HasArea(cfg.DefaultCountry) {
		return nil, fmt.Errorf("default country %q not present in dataset", cfg.DefaultCountry)
	}

	names, byName := refdata.Options(store.Areas())
	s := &Session{
		store:        store,
		notes:        noteStore,
		countryNames: names,
		countryCode:  byName,
		categories:   store.Categories(),
		entities:     store.Entities(),
		visible:      make(map[string]bool),
		ranges:       viewsync.NewStore(),
	}

	s.countryIdx = indexOf(names, refdata.Name(cfg.DefaultCountry))
	if s.countryIdx < 0 {
		return nil, fmt.Errorf("default country %q not present in dataset", cfg.DefaultCountry)
	}
	if s.categoryIdx = indexOf(s.categories, cfg.DefaultCategory); s.categoryIdx < 0 {
		s.categoryIdx = 0
	}
	if s.entityIdx = indexOf(s.entities, cfg.DefaultEntity); s.entityIdx < 0 {
		s.entityIdx = 0
	}

	// Seed the scenario options from the full dataset list, then prune to
	// the default slice's coverage.
	s.scenarios = store.Scenarios()
	if len(s.scenarios) == 0 {
		return nil, errors.New("dataset has no source-scenarios")
	}
	s.RefreshScenarioOptions()
	s.scenarioIdx = preferredScenarioIndex(s.scenarios)
	return s, nil
}

// Step advances a dimension's index by n with wraparound and returns the new
// display value. It does not refresh dependent options; callers drive the
// full update ordering through Handle.
func (s *Session) Step(d Dimension, n int) string {
	switch d {
	case Country:
		s.countryIdx = wrap(s.countryIdx+n, len(s.countryNames))
		return s.countryNames[s.countryIdx]
	case Category:
		s.categoryIdx = wrap(s.categoryIdx+n, len(s.categories))
		return s.categories[s.categoryIdx]
	case Entity:
		s.entityIdx = wrap(s.entityIdx+n, len(s.entities))
		return s.entities[s.entityIdx]
	}
	return ""
}

// Set selects a dimension value directly. The value must come from the
// dimension's current option list.
func (s *Session) Set(d Dimension, value string) error {
	var options []string
	var idx *int
	switch d {
	case Country:
		options, idx = s.countryNames, &s.countryIdx
	case Category:
		options, idx = s.categories, &s.categoryIdx
	case Entity:
		options, idx = s.entities, &s.entityIdx
	default:
		return fmt.Errorf("unknown dimension %d", d)
	}
	i := indexOf(options, value)
	if i < 0 {
		return fmt.Errorf("%s %q: %w", d, value, ErrNotAnOption)
	}
	*idx = i
	return nil
}

// SetScenario selects a source-scenario from the current option list.
func (s *Session) SetScenario(value string) error {
	i := indexOf(s.scenarios, value)
	if i < 0 {
		return fmt.Errorf("source-scenario %q: %w", value, ErrNotAnOption)
	}
	s.scenarioIdx = i
	return nil
}

// SetAll sets country, category, and entity from values, refreshes the
// scenario options, and resolves the scenario selection against the new list.
func (s *Session) SetAll(country, category, entity, scenario string) error {
	if err := s.Set(Country, country); err != nil {
		return err
	}
	if err := s.Set(Category, category); err != nil {
		return err
	}
	if err := s.Set(Entity, entity); err != nil {
		return err
	}
	s.RefreshScenarioOptions()
	if i := indexOf(s.scenarios, scenario); i >= 0 {
		s.scenarioIdx = i
	} else {
		s.scenarioIdx = 0
	}
	return nil
}

// RefreshScenarioOptions recomputes the source-scenario options as the subset
// of the dataset's scenarios with coverage for the current (country,
// category, entity) slice.
//
// Fail-soft: if the recomputed set is empty the previous options are kept
// unchanged, so the user is never left with zero choices. If the selected
// scenario drops out of the new set, selection moves to index 0. Each call
// bumps the ordering token.
func (s *Session) RefreshScenarioOptions() {
	s.token++
	fresh := s.store.ScenariosWith(s.Entity(), s.CountryCode(), s.CategoryCode())
	if len(fresh) == 0 {
		return
	}
	selected := s.scenarios[s.scenarioIdx]
	s.scenarios = fresh
	if i := indexOf(fresh, selected); i >= 0 {
		s.scenarioIdx = i
	} else {
		s.scenarioIdx = 0
	}
}

// ToggleVisibility records a legend toggle for one overview line. Unknown
// names are recorded too; visibility is independent of the current selection
// and survives it.
func (s *Session) ToggleVisibility(line string, visible bool) {
	s.visible[line] = visible
}

// Visible reports a line's visibility; lines never toggled default to
// visible.
func (s *Session) Visible(line string) bool {
	v, ok := s.visible[line]
	return !ok || v
}

// Token returns the current ordering token. Chart rebuilds carry the token
// they were built at; consumers drop stale rebuilds.
func (s *Session) Token() uint64 { return s.token }

// Ranges exposes the per-chart view-range store.
func (s *Session) Ranges() *viewsync.Store { return s.ranges }

// CountryName returns the selected country's display name.
func (s *Session) CountryName() string { return s.countryNames[s.countryIdx] }

// CountryCode returns the selected country's ISO3 code.
func (s *Session) CountryCode() string { return s.countryCode[s.CountryName()] }

// CategoryCode returns the selected category code.
func (s *Session) CategoryCode() string { return s.categories[s.categoryIdx] }

// Entity returns the selected entity name.
func (s *Session) Entity() string { return s.entities[s.entityIdx] }

// Scenario returns the selected source-scenario.
func (s *Session) Scenario() string { return s.scenarios[s.scenarioIdx] }

// CountryOptions returns the country display names.
func (s *Session) CountryOptions() []string { return s.countryNames }

// CategoryOptions returns the category codes, dataset order.
func (s *Session) CategoryOptions() []string { return s.categories }

// EntityOptions returns the entity names, dataset order.
func (s *Session) EntityOptions() []string { return s.entities }

// ScenarioOptions returns the current dependent source-scenario options.
func (s *Session) ScenarioOptions() []string { return s.scenarios }

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

// preferredScenarioIndex picks the first preferred release present, falling
// back to index 0.
func preferredScenarioIndex(options []string) int {
	for _, want := range chart.PreferredScenarioOrder {
		if i := indexOf(options, want); i >= 0 {
			return i
		}
	}
	return 0
}
