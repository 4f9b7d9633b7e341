package dataset

import (
	"fmt"
	"math"
)

// Store is the query facade over one loaded dataset file. It is read-only
// after loading; concurrent reads from multiple chart builders are safe
// without locking.
type Store struct {
	path     string
	c        *coords
	entities []string // dataset insertion order
	vars     map[string]*Array
}

// New creates an empty store over the given index space. The loader (or a
// test) fills it through AddVariable and Array.Set before handing it out.
func New(path string, years []int, areas, categories, scenarios []string) *Store {
	return &Store{
		path: path,
		c:    newCoords(years, areas, categories, scenarios),
		vars: make(map[string]*Array),
	}
}

// AddVariable registers a new entity variable, initially all-missing.
func (s *Store) AddVariable(entity, unit string) *Array {
	if a, ok := s.vars[entity]; ok {
		return a
	}
	a := newArray(s.c, entity, unit)
	s.vars[entity] = a
	s.entities = append(s.entities, entity)
	return a
}

// Path returns the dataset file path this store was loaded from ("" for
// in-memory fixtures).
func (s *Store) Path() string { return s.path }

// Years returns the shared time index.
func (s *Store) Years() []int { return s.c.years }

// Areas returns all area codes in the dataset.
func (s *Store) Areas() []string { return s.c.areas }

// Categories returns all category codes, dataset order.
func (s *Store) Categories() []string { return s.c.categories }

// Scenarios returns the full source-scenario list, dataset order.
func (s *Store) Scenarios() []string { return s.c.scenarios }

// Entities returns all variable names, dataset order.
func (s *Store) Entities() []string { return s.entities }

// HasArea reports whether an area code exists in the index.
func (s *Store) HasArea(code string) bool {
	_, ok := s.c.areaIdx[code]
	return ok
}

// Unit returns the unit of an entity variable.
func (s *Store) Unit(entity string) (string, error) {
	a, ok := s.vars[entity]
	if !ok {
		return "", fmt.Errorf("unknown entity %q", entity)
	}
	return a.unit, nil
}

// Series returns the time series for one full selection, aligned to Years(),
// NaN for missing observations.
func (s *Store) Series(entity, area, category, scenario string) ([]float64, error) {
	a, ok := s.vars[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	return a.Series(area, category, scenario)
}

// HasData reports whether a selection has any non-missing observation.
// Entities not present in the dataset report false.
func (s *Store) HasData(entity, area, category, scenario string) bool {
	a, ok := s.vars[entity]
	if !ok {
		return false
	}
	return a.HasData(area, category, scenario)
}

// ScenariosWith returns the source-scenarios, in dataset order, that carry at
// least one non-missing value for (entity, area, category). May be empty; the
// caller owns the fail-soft retention rule.
func (s *Store) ScenariosWith(entity, area, category string) []string {
	a, ok := s.vars[entity]
	if !ok {
		return nil
	}
	var out []string
	for _, scen := range s.c.scenarios {
		if a.HasData(area, category, scen) {
			out = append(out, scen)
		}
	}
	return out
}

// Table is the flattened tabular view of one (entity, area, category) slice:
// one row per year, one value column per source-scenario.
type Table struct {
	Entity    string
	Unit      string
	Area      string
	Category  string
	Years     []int
	Scenarios []string
	// Values is indexed [year][scenario]; NaN marks a missing observation.
	Values [][]float64
}

// Table flattens a slice into a year-by-scenario table, dropping rows where
// every scenario is missing.
func (s *Store) Table(entity, area, category string, scenarios []string) (*Table, error) {
	unit, err := s.Unit(entity)
	if err != nil {
		return nil, err
	}
	columns := make([][]float64, len(scenarios))
	for i, scen := range scenarios {
		col, err := s.Series(entity, area, category, scen)
		if err != nil {
			return nil, fmt.Errorf("flattening %q: %w", scen, err)
		}
		columns[i] = col
	}

	t := &Table{
		Entity:    entity,
		Unit:      unit,
		Area:      area,
		Category:  category,
		Scenarios: scenarios,
	}
	for yi, year := range s.c.years {
		row := make([]float64, len(scenarios))
		all := true
		for i := range scenarios {
			row[i] = columns[i][yi]
			if !math.IsNaN(row[i]) {
				all = false
			}
		}
		if all {
			continue
		}
		t.Years = append(t.Years, year)
		t.Values = append(t.Values, row)
	}
	return t, nil
}
