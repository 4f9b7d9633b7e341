package chart

import (
	"fmt"
	"math"

	"github.com/openclimatedata/ghgdash/internal/dataset"
	"github.com/openclimatedata/ghgdash/internal/gases"
	"github.com/openclimatedata/ghgdash/internal/taxonomy"
)

// CategorySplit builds the stacked breakdown of the selected category into
// its child categories, under the fixed entity and source-scenario.
func CategorySplit(store *dataset.Store, countryCode, category, entity, scenario string) (*Figure, error) {
	unit, err := store.Unit(entity)
	if err != nil {
		return nil, err
	}

	children := taxonomy.ChildrenOf(category, store.Categories())
	series := make([]Series, 0, len(children))
	for _, child := range children {
		values, err := store.Series(entity, countryCode, child, scenario)
		if err != nil {
			return nil, fmt.Errorf("category slice %q: %w", child, err)
		}
		series = append(series, Series{Name: child, Values: values})
	}

	if allMissing(series) {
		// Degenerate fallback: the parent category alone.
		values, err := store.Series(entity, countryCode, category, scenario)
		if err != nil {
			return nil, fmt.Errorf("category fallback slice: %w", err)
		}
		series = []Series{{Name: category, Values: values}}
		if allMissing(series) {
			series = nil
		}
	}

	title := fmt.Sprintf("%s by category, %s", category, scenario)
	return splitFigure(store.Years(), series, title, unit), nil
}

// EntitySplit builds the stacked breakdown of the selected entity into its
// constituent gases, under the fixed category and source-scenario.
//
// For composite entities carrying a GWP vintage, every sub-entity series is
// converted into the composite's CO2-equivalent unit on a common Gg/yr mass
// flow before stacking; plain gases pass through unchanged.
func EntitySplit(store *dataset.Store, countryCode, category, entity, scenario string) (*Figure, error) {
	unit, err := store.Unit(entity)
	if err != nil {
		return nil, err
	}

	_, vintage, composite := gases.ParseEntity(entity)
	yTitle := unit
	if composite {
		yTitle = fmt.Sprintf("Gg CO2-eq (%s) / yr", vintage)
	}

	series, err := subentitySeries(store, countryCode, category, entity, scenario, vintage, composite)
	if err != nil {
		return nil, err
	}

	if allMissing(series) {
		// Degenerate fallback: the selected entity alone, unconverted.
		values, err := store.Series(entity, countryCode, category, scenario)
		if err != nil {
			return nil, fmt.Errorf("entity fallback slice: %w", err)
		}
		series = []Series{{Name: entity, Values: values}}
		yTitle = unit
		if allMissing(series) {
			series = nil
		}
	}

	title := fmt.Sprintf("%s by gas, %s", entity, scenario)
	return splitFigure(store.Years(), series, title, yTitle), nil
}

// subentitySeries fetches and, for composites, GWP-converts the constituent
// series of an entity. The composite's own series is never part of the stack:
// SubentitiesOf lists only true constituents, so composing it back in would
// double-count.
func subentitySeries(store *dataset.Store, countryCode, category, entity, scenario string, vintage gases.Vintage, composite bool) ([]Series, error) {
	present := make(map[string]bool)
	for _, e := range store.Entities() {
		present[e] = true
	}

	var out []Series
	for _, sub := range gases.SubentitiesOf(entity) {
		if !present[sub] {
			continue
		}
		values, err := store.Series(sub, countryCode, category, scenario)
		if err != nil {
			return nil, fmt.Errorf("entity slice %q: %w", sub, err)
		}
		if composite {
			subUnit, err := store.Unit(sub)
			if err != nil {
				return nil, err
			}
			factor, err := gases.ConversionFactor(subUnit, vintage)
			if err != nil {
				return nil, fmt.Errorf("converting %q: %w", sub, err)
			}
			values = scaled(values, factor)
		}
		out = append(out, Series{Name: sub, Values: values})
	}
	return out, nil
}

// splitFigure wraps stacked traces in the shared split-chart layout. The
// x-range spans the full time window of the index even when the plotted
// traces drop all-missing rows, so a missing recent tail doesn't visually
// truncate the axis.
func splitFigure(years []int, series []Series, title, yTitle string) *Figure {
	fig := &Figure{
		Data: stackedTraces(years, series),
		Layout: Layout{
			Title:  title,
			YAxis:  Axis{Title: yTitle, Autorange: true},
			Margin: defaultMargin,
		},
	}
	if len(years) > 0 {
		fig.Layout.XAxis = Axis{Range: &[2]float64{float64(years[0]), float64(years[len(years)-1])}}
	} else {
		fig.Layout.XAxis = Axis{Autorange: true}
	}
	return fig
}

func scaled(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = v * factor
	}
	return out
}
