package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// LoadCSV reads a wide-format emissions CSV into a Store. Expected header:
// source, scenario, area, entity, unit, category metadata columns (matched by
// prefix, so "scenario (PRIMAP-hist)" and "area (ISO3)" work), followed by
// one column per year. Empty cells are missing observations.
//
// The source and scenario columns join into the source-scenario label
// "<source>, <scenario>" the rest of the explorer keys on.
func LoadCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	header := records[0]
	meta := map[string]int{
		"source": -1, "scenario": -1, "area": -1,
		"entity": -1, "unit": -1, "category": -1,
	}
	var yearCols []int
	var years []int
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		matched := false
		for key, idx := range meta {
			if idx < 0 && strings.HasPrefix(name, key) {
				meta[key] = i
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if y, err := strconv.Atoi(strings.TrimSpace(h)); err == nil {
			yearCols = append(yearCols, i)
			years = append(years, y)
		}
	}
	for key, idx := range meta {
		if idx < 0 {
			return nil, fmt.Errorf("%s: missing %q column", path, key)
		}
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("%s: no year columns", path)
	}
	sort.Ints(years)

	// First pass over rows: collect coordinate labels in dataset order.
	var areas, categories, scenarios []string
	seenArea := map[string]bool{}
	seenCat := map[string]bool{}
	seenScen := map[string]bool{}
	type rowMeta struct {
		scenario, area, entity, unit, category string
	}
	rows := make([]rowMeta, 0, len(records)-1)
	for _, rec := range records[1:] {
		rm := rowMeta{
			scenario: rec[meta["source"]] + ", " + rec[meta["scenario"]],
			area:     rec[meta["area"]],
			entity:   rec[meta["entity"]],
			unit:     rec[meta["unit"]],
			category: rec[meta["category"]],
		}
		rows = append(rows, rm)
		if !seenArea[rm.area] {
			seenArea[rm.area] = true
			areas = append(areas, rm.area)
		}
		if !seenCat[rm.category] {
			seenCat[rm.category] = true
			categories = append(categories, rm.category)
		}
		if !seenScen[rm.scenario] {
			seenScen[rm.scenario] = true
			scenarios = append(scenarios, rm.scenario)
		}
	}

	store := New(path, years, areas, categories, scenarios)
	for ri, rec := range records[1:] {
		rm := rows[ri]
		arr := store.AddVariable(rm.entity, rm.unit)
		for _, col := range yearCols {
			cell := strings.TrimSpace(rec[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: bad value %q: %w", path, ri+2, cell, err)
			}
			year, _ := strconv.Atoi(strings.TrimSpace(header[col]))
			if err := arr.Set(year, rm.area, rm.category, rm.scenario, v); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, ri+2, err)
			}
		}
	}
	return store, nil
}
