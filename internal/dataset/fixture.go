package dataset

import "math"

// Fixture scenario and coordinate labels, shared with tests across packages.
const (
	FixtureHISTCR   = "PRIMAP-hist v2.5, HISTCR"
	FixtureHISTTP   = "PRIMAP-hist v2.5, HISTTP"
	FixturePrevCR   = "PRIMAP-hist v2.4.2, HISTCR"
	FixturePrevTP   = "PRIMAP-hist v2.4.2, HISTTP"
	FixtureModelled = "CAMS-GLOB v1, SSP2"
)

// Fixture builds the small deterministic dataset used by --test-data and by
// tests. Its shape exercises the interesting coverage cases:
//
//   - the modelled scenario covers only CO2 / M.0.EL from 2000 on, so it gets
//     pruned from the scenario options for most selections;
//   - M.LULUCF is a net sink (negative values) for the negative stack;
//   - the previous-release scenarios stop in 2021, leaving a missing tail;
//   - DEU CH4 for HISTTP has an internal gap (wartime years), which the
//     overview chart renders with markers.
func Fixture() *Store {
	years := make([]int, 0, 73)
	for y := 1950; y <= 2022; y++ {
		years = append(years, y)
	}
	areas := []string{"EARTH", "DEU", "USA", "CHN", "IND"}
	categories := []string{"M.0.EL", "1", "2", "M.AG", "4", "5", "3", "M.LULUCF"}
	scenarios := []string{
		FixtureHISTCR, FixtureHISTTP, FixturePrevCR, FixturePrevTP, FixtureModelled,
	}

	s := New("", years, areas, categories, scenarios)

	type variable struct {
		entity string
		unit   string
		scale  float64
	}
	vars := []variable{
		{"CO2", "Gg CO2 / yr", 1000},
		{"CH4", "Gg CH4 / yr", 40},
		{"N2O", "Gg N2O / yr", 3},
		{"SF6", "Gg SF6 / yr", 0.02},
		{"NF3", "Gg NF3 / yr", 0.004},
		{"HFCS (AR6GWP100)", "Gg CO2 / yr", 60},
		{"PFCS (AR6GWP100)", "Gg CO2 / yr", 25},
		{"FGASES (AR6GWP100)", "Gg CO2 / yr", 90},
		{"KYOTOGHG (AR6GWP100)", "Gg CO2 / yr", 4000},
	}

	areaScale := map[string]float64{
		"EARTH": 1, "USA": 0.21, "CHN": 0.26, "IND": 0.07, "DEU": 0.025,
	}
	catScale := map[string]float64{
		"M.0.EL": 1, "1": 0.72, "2": 0.09, "M.AG": 0.12, "4": 0.04,
		"5": 0.03, "3": 0.05, "M.LULUCF": -0.07,
	}

	for _, v := range vars {
		arr := s.AddVariable(v.entity, v.unit)
		for _, area := range areas {
			for _, cat := range categories {
				for _, scen := range scenarios {
					for _, year := range years {
						val, ok := fixtureValue(v.entity, v.scale, area, cat, scen, year,
							areaScale[area], catScale[cat])
						if ok {
							arr.Set(year, area, cat, scen, val)
						}
					}
				}
			}
		}
	}
	return s
}

// fixtureValue computes one synthetic observation, reporting ok=false where
// the fixture leaves coverage gaps.
func fixtureValue(entity string, scale float64, area, cat, scen string, year int, areaS, catS float64) (float64, bool) {
	switch scen {
	case FixtureModelled:
		if entity != "CO2" || cat != "M.0.EL" || year < 2000 {
			return 0, false
		}
	case FixturePrevCR, FixturePrevTP:
		if year > 2021 {
			return 0, false
		}
	}
	// Country-reported coverage starts later than third-party coverage.
	if (scen == FixtureHISTCR || scen == FixturePrevCR) && year < 1970 {
		return 0, false
	}
	// Internal gap for one series: DEU CH4 HISTTP misses the 1960s.
	if entity == "CH4" && area == "DEU" && scen == FixtureHISTTP &&
		year >= 1960 && year < 1970 {
		return 0, false
	}

	growth := 1 + 0.018*float64(year-1950)
	wobble := 1 + 0.05*math.Sin(float64(year)*0.7+float64(len(entity)))
	v := scale * areaS * catS * growth * wobble
	if scen == FixtureHISTTP || scen == FixturePrevTP {
		v *= 0.97 // territorial coverage variant sits slightly lower
	}
	if scen == FixtureModelled {
		v *= 1.02
	}
	return v, true
}
