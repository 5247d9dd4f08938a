// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge joins cross-referenced protein rows with gene annotations.
package merge

import (
	"sort"

	"github.com/pdiddy/protein-annotator/pkg/types"
)

// OuterJoin performs a full outer join of proteins and genes on the Ensembl
// gene ID. Every input row appears in the output at least once: unmatched
// protein rows carry a nil Gene, unmatched annotations a nil Protein. Rows
// sharing a key produce their cross product.
//
// Output is ordered by gene ID; protein rows without a gene ID come last in
// their input order. Within one key, protein order is kept, then gene order.
func OuterJoin(proteins []types.CrossRefRecord, genes []types.GeneAnnotation) []types.MergedRow {
	leftByKey := make(map[string][]int)
	rightByKey := make(map[string][]int)
	var unkeyed []int

	for i, p := range proteins {
		if !p.HasGeneID() {
			unkeyed = append(unkeyed, i)
			continue
		}
		leftByKey[p.GeneID] = append(leftByKey[p.GeneID], i)
	}
	for i, g := range genes {
		if g.GeneID == "" {
			continue
		}
		rightByKey[g.GeneID] = append(rightByKey[g.GeneID], i)
	}

	keys := make([]string, 0, len(leftByKey)+len(rightByKey))
	for k := range leftByKey {
		keys = append(keys, k)
	}
	for k := range rightByKey {
		if _, ok := leftByKey[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var rows []types.MergedRow
	for _, k := range keys {
		left, right := leftByKey[k], rightByKey[k]
		switch {
		case len(right) == 0:
			for _, li := range left {
				rows = append(rows, types.MergedRow{GeneID: k, Protein: &proteins[li]})
			}
		case len(left) == 0:
			for _, ri := range right {
				rows = append(rows, types.MergedRow{GeneID: k, Gene: &genes[ri]})
			}
		default:
			for _, li := range left {
				for _, ri := range right {
					rows = append(rows, types.MergedRow{GeneID: k, Protein: &proteins[li], Gene: &genes[ri]})
				}
			}
		}
	}

	for _, li := range unkeyed {
		rows = append(rows, types.MergedRow{Protein: &proteins[li]})
	}
	return rows
}
