// Package dataset wraps the labeled-array storage behind the explorer: a set
// of per-entity variables sharing one (time, area, category, source-scenario)
// index space. Values are float64 with NaN marking a missing observation;
// missingness means absence of coverage and survives every filter in this
// package — nothing here turns NaN into zero.
package dataset

import (
	"fmt"
	"math"
)

// coords is the label index space shared by every variable of a Store.
// Category and scenario orders are dataset insertion order, deliberately not
// re-sorted (the UI option lists follow them).
type coords struct {
	years      []int
	areas      []string
	categories []string
	scenarios  []string

	yearIdx map[int]int
	areaIdx map[string]int
	catIdx  map[string]int
	scenIdx map[string]int
}

func newCoords(years []int, areas, categories, scenarios []string) *coords {
	c := &coords{
		years:      years,
		areas:      areas,
		categories: categories,
		scenarios:  scenarios,
		yearIdx:    make(map[int]int, len(years)),
		areaIdx:    make(map[string]int, len(areas)),
		catIdx:     make(map[string]int, len(categories)),
		scenIdx:    make(map[string]int, len(scenarios)),
	}
	for i, y := range years {
		c.yearIdx[y] = i
	}
	for i, a := range areas {
		c.areaIdx[a] = i
	}
	for i, cat := range categories {
		c.catIdx[cat] = i
	}
	for i, s := range scenarios {
		c.scenIdx[s] = i
	}
	return c
}

// Array is a single entity variable over the shared index space.
type Array struct {
	entity string
	unit   string
	c      *coords
	data   []float64 // row-major: year, area, category, scenario
}

func newArray(c *coords, entity, unit string) *Array {
	n := len(c.years) * len(c.areas) * len(c.categories) * len(c.scenarios)
	data := make([]float64, n)
	for i := range data {
		data[i] = math.NaN()
	}
	return &Array{entity: entity, unit: unit, c: c, data: data}
}

// Entity returns the variable name.
func (a *Array) Entity() string { return a.entity }

// Unit returns the variable's emission-rate unit, e.g. "Gg CH4 / yr".
func (a *Array) Unit() string { return a.unit }

func (a *Array) offset(yi, ai, ci, si int) int {
	c := a.c
	return ((yi*len(c.areas)+ai)*len(c.categories)+ci)*len(c.scenarios) + si
}

// Set stores one observation. Unknown labels are a programming error in the
// loader, returned as such.
func (a *Array) Set(year int, area, category, scenario string, v float64) error {
	c := a.c
	yi, ok := c.yearIdx[year]
	if !ok {
		return fmt.Errorf("year %d not in index", year)
	}
	ai, ok := c.areaIdx[area]
	if !ok {
		return fmt.Errorf("area %q not in index", area)
	}
	ci, ok := c.catIdx[category]
	if !ok {
		return fmt.Errorf("category %q not in index", category)
	}
	si, ok := c.scenIdx[scenario]
	if !ok {
		return fmt.Errorf("source-scenario %q not in index", scenario)
	}
	a.data[a.offset(yi, ai, ci, si)] = v
	return nil
}

// Series selects by (area, category, scenario) labels and squeezes the three
// size-1 dimensions away, returning the time series aligned to the shared
// year index. Missing observations stay NaN.
func (a *Array) Series(area, category, scenario string) ([]float64, error) {
	c := a.c
	ai, ok := c.areaIdx[area]
	if !ok {
		return nil, fmt.Errorf("area %q not in index", area)
	}
	ci, ok := c.catIdx[category]
	if !ok {
		return nil, fmt.Errorf("category %q not in index", category)
	}
	si, ok := c.scenIdx[scenario]
	if !ok {
		return nil, fmt.Errorf("source-scenario %q not in index", scenario)
	}
	out := make([]float64, len(c.years))
	for yi := range c.years {
		out[yi] = a.data[a.offset(yi, ai, ci, si)]
	}
	return out, nil
}

// HasData reports whether the (area, category, scenario) slice holds at least
// one non-missing observation. Unknown labels simply report false; pruning
// option lists must not error on partially-covered coordinates.
func (a *Array) HasData(area, category, scenario string) bool {
	series, err := a.Series(area, category, scenario)
	if err != nil {
		return false
	}
	for _, v := range series {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}
