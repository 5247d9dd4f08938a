// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/protein-annotator/pkg/types"
)

// FormatTable writes rows as a human-readable table to w.
func FormatTable(rows []types.MergedRow, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No rows.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-8s  %-22s  %-16s  %-5s  %-40s\n",
		"Accession", "Gene", "Organism", "Ensembl ID", "Chr", "Description")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range rows {
		var acc, gene, organism, desc, region string
		if p := r.Protein; p != nil {
			acc, gene, organism = p.Accession, p.Gene, p.OrganismScientific
		}
		if g := r.Gene; g != nil {
			desc, region = g.Description, g.SeqRegionName
		}
		fmt.Fprintf(w, "%-10s  %-8s  %-22s  %-16s  %-5s  %-40s\n",
			orDash(acc), orDash(gene), truncate(orDash(organism), 22),
			orDash(r.GeneID), orDash(region), truncate(orDash(desc), 40))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
