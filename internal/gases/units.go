package gases

import (
	"fmt"
	"strings"
)

// gwp holds the 100-year global-warming-potential factors per vintage.
// A gas absent from a vintage's table (NF3 under SAR) cannot be converted
// under that vintage.
var gwp = map[Vintage]map[string]float64{
	SARGWP100: {
		"CO2": 1, "CH4": 21, "N2O": 310, "SF6": 23900,
	},
	AR4GWP100: {
		"CO2": 1, "CH4": 25, "N2O": 298, "SF6": 22800, "NF3": 17200,
	},
	AR5GWP100: {
		"CO2": 1, "CH4": 28, "N2O": 265, "SF6": 23500, "NF3": 16100,
	},
	AR6GWP100: {
		"CO2": 1, "CH4": 27.9, "N2O": 273, "SF6": 25200, "NF3": 17400,
	},
}

// GWP returns the 100-year warming potential of a gas under a vintage.
func GWP(v Vintage, gas string) (float64, bool) {
	factors, ok := gwp[v]
	if !ok {
		return 0, false
	}
	f, ok := factors[gas]
	return f, ok
}

// massToGg converts a mass-unit prefix to gigagrams. "kt" and "Gg" are the
// same quantity under different names; both appear in published datasets.
var massToGg = map[string]float64{
	"t":  1e-3,
	"kt": 1,
	"Gg": 1,
	"Mt": 1e3,
	"Tg": 1e3,
	"Gt": 1e6,
	"Pg": 1e6,
}

// Unit is a parsed emission-rate unit of the form "<mass> <species> / yr",
// e.g. "Gg CH4 / yr" or "kt CO2 / yr".
type Unit struct {
	Mass    string // mass prefix, e.g. "Gg"
	Species string // gas the mass is measured in, e.g. "CH4" or "CO2"
}

// ParseUnit parses an emission-rate unit string.
func ParseUnit(s string) (Unit, error) {
	fields := strings.Fields(s)
	// Tolerate both "Gg CO2 / yr" and "Gg CO2/yr".
	if n := len(fields); n >= 2 {
		last := fields[n-1]
		if last == "yr" && n >= 3 && fields[n-2] == "/" {
			fields = fields[:n-2]
		} else if strings.HasSuffix(last, "/yr") {
			fields[n-1] = strings.TrimSuffix(last, "/yr")
			if fields[n-1] == "" {
				fields = fields[:n-1]
			}
		}
	}
	if len(fields) != 2 {
		return Unit{}, fmt.Errorf("unparseable unit %q", s)
	}
	if _, ok := massToGg[fields[0]]; !ok {
		return Unit{}, fmt.Errorf("unknown mass unit %q in %q", fields[0], s)
	}
	return Unit{Mass: fields[0], Species: fields[1]}, nil
}

// ConversionFactor returns the multiplier that takes a series measured in
// unit into Gg CO2-equivalent per year under the target vintage.
//
// Series already expressed in CO2 (including CO2-equivalent aggregates, whose
// vintage is carried by the entity name, not the unit) only get the mass
// rescaling. Native-gas series are additionally multiplied by the gas's GWP
// factor; a gas without a factor under the target vintage is an error.
func ConversionFactor(unit string, target Vintage) (float64, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return 0, err
	}
	factor := massToGg[u.Mass]
	if u.Species == "CO2" {
		return factor, nil
	}
	g, ok := GWP(target, u.Species)
	if !ok {
		return 0, fmt.Errorf("no %s factor for gas %q", target, u.Species)
	}
	return factor * g, nil
}
