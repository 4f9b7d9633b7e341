package refdata

import (
	"sort"
	"testing"
)

func TestNameFallsBackToCode(t *testing.T) {
	if got := Name("XNONEX"); got != "XNONEX" {
		t.Fatalf("Name(XNONEX) = %q, want the raw code", got)
	}
	if got := Name("DEU"); got != "Germany" {
		t.Fatalf("Name(DEU) = %q, want Germany", got)
	}
}

func TestOptionsSortedAndBijective(t *testing.T) {
	names, byName := Options([]string{"USA", "EARTH", "DEU", "XCUSTOM"})
	if !sort.StringsAreSorted(names) {
		t.Errorf("option names not sorted: %v", names)
	}
	if len(names) != 4 {
		t.Fatalf("got %d names, want 4: %v", len(names), names)
	}
	seen := map[string]bool{}
	for _, n := range names {
		code, ok := byName[n]
		if !ok {
			t.Errorf("name %q has no code mapping", n)
			continue
		}
		if seen[code] {
			t.Errorf("code %q mapped from two names", code)
		}
		seen[code] = true
	}
	if byName["XCUSTOM"] != "XCUSTOM" {
		t.Errorf("unknown code should map to itself, got %q", byName["XCUSTOM"])
	}
}
