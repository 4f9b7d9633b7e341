// Package gases holds the static gas knowledge the explorer needs: which
// sub-entities a composite greenhouse-gas entity decomposes into, the
// global-warming-potential factors of each GWP vintage, and unit conversion
// into a common CO2-equivalent mass flow.
package gases

import (
	"fmt"
	"strings"
)

// Vintage identifies a global-warming-potential convention. Decompositions
// and GWP factors are independent per vintage; nothing is inherited across
// vintages.
type Vintage string

const (
	SARGWP100 Vintage = "SARGWP100"
	AR4GWP100 Vintage = "AR4GWP100"
	AR5GWP100 Vintage = "AR5GWP100"
	AR6GWP100 Vintage = "AR6GWP100"
)

// Vintages lists all known vintages, oldest first.
var Vintages = []Vintage{SARGWP100, AR4GWP100, AR5GWP100, AR6GWP100}

// decompositions maps a composite entity name to its constituents, one entry
// per vintage. Constituent order is the stacking order of the entity chart.
var decompositions = map[string][]string{}

func init() {
	for _, v := range Vintages {
		decompositions[Composite("KYOTOGHG", v)] = []string{
			"CO2", "CH4", "N2O", Composite("FGASES", v),
		}
		// NF3 joined the basket with AR4; the SAR-era basket has no factor
		// for it, so the SAR decomposition leaves it out.
		if v == SARGWP100 {
			decompositions[Composite("FGASES", v)] = []string{
				Composite("HFCS", v), Composite("PFCS", v), "SF6",
			}
			continue
		}
		decompositions[Composite("FGASES", v)] = []string{
			Composite("HFCS", v), Composite("PFCS", v), "NF3", "SF6",
		}
	}
}

// Composite formats a vintage-qualified composite entity name, e.g.
// "KYOTOGHG (AR6GWP100)".
func Composite(group string, v Vintage) string {
	return fmt.Sprintf("%s (%s)", group, v)
}

// SubentitiesOf returns the constituent entities of a composite entity in
// stacking order. Single gases (and unknown entities) decompose to themselves.
func SubentitiesOf(entity string) []string {
	if subs, ok := decompositions[entity]; ok {
		out := make([]string, len(subs))
		copy(out, subs)
		return out
	}
	return []string{entity}
}

// ParseEntity splits a vintage-qualified entity name into its gas/group part
// and vintage. For plain gas names ok is false and the vintage is empty.
func ParseEntity(entity string) (gas string, v Vintage, ok bool) {
	open := strings.IndexByte(entity, '(')
	if open < 0 || !strings.HasSuffix(entity, ")") {
		return entity, "", false
	}
	gas = strings.TrimSpace(entity[:open])
	v = Vintage(entity[open+1 : len(entity)-1])
	for _, known := range Vintages {
		if v == known {
			return gas, v, true
		}
	}
	return entity, "", false
}
