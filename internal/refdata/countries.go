// Package refdata maps ISO3 area codes to display names. Codes without an
// entry (including dataset-specific aggregates we don't know about) fall back
// to the raw code.
package refdata

import "sort"

var names = map[string]string{
	// Aggregates used by PRIMAP-style datasets.
	"EARTH":     "Earth (all countries)",
	"ANNEXI":    "Annex I Parties",
	"NONANNEXI": "Non-Annex I Parties",
	"AOSIS":     "Alliance of Small Island States",
	"BASIC":     "BASIC countries",
	"EU27BX":    "European Union (post-Brexit)",
	"LDC":       "Least Developed Countries",
	"UMBRELLA":  "Umbrella Group",

	"AFG": "Afghanistan",
	"ARG": "Argentina",
	"AUS": "Australia",
	"AUT": "Austria",
	"BEL": "Belgium",
	"BGD": "Bangladesh",
	"BRA": "Brazil",
	"CAN": "Canada",
	"CHE": "Switzerland",
	"CHL": "Chile",
	"CHN": "China",
	"COL": "Colombia",
	"CZE": "Czechia",
	"DEU": "Germany",
	"DNK": "Denmark",
	"EGY": "Egypt",
	"ESP": "Spain",
	"ETH": "Ethiopia",
	"FIN": "Finland",
	"FRA": "France",
	"GBR": "United Kingdom",
	"GRC": "Greece",
	"IDN": "Indonesia",
	"IND": "India",
	"IRL": "Ireland",
	"IRN": "Iran",
	"ITA": "Italy",
	"JPN": "Japan",
	"KAZ": "Kazakhstan",
	"KEN": "Kenya",
	"KOR": "South Korea",
	"MEX": "Mexico",
	"MYS": "Malaysia",
	"NGA": "Nigeria",
	"NLD": "Netherlands",
	"NOR": "Norway",
	"NZL": "New Zealand",
	"PAK": "Pakistan",
	"PHL": "Philippines",
	"POL": "Poland",
	"PRT": "Portugal",
	"ROU": "Romania",
	"RUS": "Russia",
	"SAU": "Saudi Arabia",
	"SWE": "Sweden",
	"THA": "Thailand",
	"TUR": "Turkey",
	"UKR": "Ukraine",
	"USA": "United States of America",
	"VEN": "Venezuela",
	"VNM": "Viet Nam",
	"ZAF": "South Africa",
}

// Name returns the display name for an ISO3 code, or the code itself when it
// is not in the reference table.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// Options turns a list of area codes into sorted display names plus the
// name-to-code mapping the selection state needs. The mapping is bijective:
// unknown codes name themselves, and a display-name collision keeps the first
// code encountered (datasets do not contain duplicate areas).
func Options(codes []string) (names []string, byName map[string]string) {
	byName = make(map[string]string, len(codes))
	names = make([]string, 0, len(codes))
	for _, code := range codes {
		n := Name(code)
		if _, dup := byName[n]; dup {
			continue
		}
		byName[n] = code
		names = append(names, n)
	}
	sort.Strings(names)
	return names, byName
}
