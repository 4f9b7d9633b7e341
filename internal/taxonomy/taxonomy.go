// Package taxonomy resolves IPCC2006-PRIMAP category codes to the child
// categories used for breakdown charts.
//
// The tree mirrors the IPCC 2006 categorization with the PRIMAP extension
// codes (M.0.EL, M.AG, M.LULUCF, M.AG.ELV). A node may define more than one
// valid child grouping; sector 3 (AFOLU) can be decomposed either into its
// numeric sub-sectors or into the agriculture/LULUCF split.
package taxonomy

// altGroupingCode is the one node resolved through its second child grouping:
// for sector 3 the agriculture/LULUCF split is the decomposition the explorer
// wants, because M.LULUCF is what the headline "excluding LULUCF" totals
// carve out.
const altGroupingCode = "3"

// tree maps a category code to its child groupings. The first grouping is the
// canonical decomposition; additional groupings are alternates.
var tree = map[string][][]string{
	"0":      {{"1", "2", "3", "4", "5"}},
	"M.0.EL": {{"1", "2", "M.AG", "4", "5"}},
	"1":      {{"1.A", "1.B", "1.C"}},
	"1.A":    {{"1.A.1", "1.A.2", "1.A.3", "1.A.4", "1.A.5"}},
	"1.B":    {{"1.B.1", "1.B.2", "1.B.3"}},
	"2":      {{"2.A", "2.B", "2.C", "2.D", "2.E", "2.F", "2.G", "2.H"}},
	"3":      {{"3.A", "3.B", "3.C", "3.D"}, {"M.AG", "M.LULUCF"}},
	"3.A":    {{"3.A.1", "3.A.2"}},
	"M.AG":   {{"3.A", "M.AG.ELV"}},
	"4":      {{"4.A", "4.B", "4.C", "4.D", "4.E"}},
	"5":      {{"5.A", "5.B"}},
}

// ChildrenOf resolves a category code to the child codes a breakdown chart
// should plot, restricted to the codes actually present in the dataset.
//
// Leaf codes resolve to themselves, as does any code whose resolved children
// are all absent from existing. The result is never empty.
func ChildrenOf(code string, existing []string) []string {
	groupings := tree[code]
	if len(groupings) == 0 {
		return []string{code}
	}

	grouping := groupings[0]
	if code == altGroupingCode && len(groupings) > 1 {
		grouping = groupings[1]
	}

	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c] = true
	}

	children := make([]string, 0, len(grouping))
	for _, c := range grouping {
		if present[c] {
			children = append(children, c)
		}
	}
	if len(children) == 0 {
		return []string{code}
	}
	return children
}

// Known reports whether a code is a node in the taxonomy tree.
func Known(code string) bool {
	_, ok := tree[code]
	return ok
}
