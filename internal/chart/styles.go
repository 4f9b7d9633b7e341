package chart

// PreferredScenarioOrder is moved to the front of the overview legend, in
// this order, ahead of all other source-scenarios: the current and the
// immediately prior canonical release, each in its country-reported and
// third-party coverage variant.
var PreferredScenarioOrder = []string{
	"PRIMAP-hist v2.5, HISTCR",
	"PRIMAP-hist v2.5, HISTTP",
	"PRIMAP-hist v2.4.2, HISTCR",
	"PRIMAP-hist v2.4.2, HISTTP",
}

// scenarioStyles pins line styles to the well-known releases so they look the
// same across selections. Anything else gets the zero style and the
// renderer's color cycle.
var scenarioStyles = map[string]LineStyle{
	"PRIMAP-hist v2.5, HISTCR":   {Color: "#d62728", Width: 2},
	"PRIMAP-hist v2.5, HISTTP":   {Color: "#d62728", Dash: "dash", Width: 2},
	"PRIMAP-hist v2.4.2, HISTCR": {Color: "#1f77b4", Width: 1.5},
	"PRIMAP-hist v2.4.2, HISTTP": {Color: "#1f77b4", Dash: "dash", Width: 1.5},
}

// qualitativePalette colors breakdown series, assigned in series order.
var qualitativePalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// orderScenarios returns scenarios with the preferred releases first, in
// their fixed order, and everything else following in the order given.
func orderScenarios(scenarios []string) []string {
	present := make(map[string]bool, len(scenarios))
	for _, s := range scenarios {
		present[s] = true
	}
	out := make([]string, 0, len(scenarios))
	preferred := make(map[string]bool, len(PreferredScenarioOrder))
	for _, s := range PreferredScenarioOrder {
		preferred[s] = true
		if present[s] {
			out = append(out, s)
		}
	}
	for _, s := range scenarios {
		if !preferred[s] {
			out = append(out, s)
		}
	}
	return out
}
