// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ensembl talks to the Ensembl REST API: it maps (organism, gene
// symbol) pairs to Ensembl gene IDs and annotates gene IDs in one batch.
package ensembl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/protein-annotator/internal/httputil"
	"github.com/pdiddy/protein-annotator/pkg/types"
)

// DefaultBaseURL is the public Ensembl REST root.
const DefaultBaseURL = "https://rest.ensembl.org"

// xrefEntry is one element of the xrefs/symbol response list.
type xrefEntry struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ResolveGeneIDs looks up the Ensembl gene ID for every protein record and
// returns one CrossRefRecord per input row, in the same order. Rows whose
// lookup fails are logged and kept with an empty GeneID. The int result is
// the number of failed rows. The error is non-nil only when ctx is
// cancelled; rows not reached are then returned without a GeneID.
func ResolveGeneIDs(ctx context.Context, client *http.Client, proteins []types.ProteinRecord, cfg types.EnsemblConfig, log *zap.Logger) ([]types.CrossRefRecord, int, error) {
	log.Info("getting Ensembl gene IDs", zap.Int("rows", len(proteins)))

	out := make([]types.CrossRefRecord, len(proteins))
	failed := 0
	for i, p := range proteins {
		out[i] = types.CrossRefRecord{ProteinRecord: p}
	}

	for i, p := range proteins {
		if err := ctx.Err(); err != nil {
			return out, failed, err
		}

		id, err := LookupGeneID(ctx, client, p.OrganismScientific, p.Gene, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return out, failed, ctx.Err()
			}
			msg := "error resolving gene ID, other accessions will still be processed"
			if httputil.IsStatusError(err) {
				msg = "HTTP error resolving gene ID, other accessions will still be processed"
			}
			log.Warn(msg,
				zap.String("accession", p.Accession),
				zap.String("species", p.OrganismScientific),
				zap.String("gene", p.Gene),
				zap.Error(err))
			failed++
			continue
		}
		out[i].GeneID = id
	}
	return out, failed, nil
}

// LookupGeneID returns the ID of the first cross-reference Ensembl lists for
// gene in species. The species name is lower-cased as the endpoint expects.
func LookupGeneID(ctx context.Context, client *http.Client, species, gene string, cfg types.EnsemblConfig) (string, error) {
	if species == "" || gene == "" {
		return "", fmt.Errorf("species and gene are required")
	}

	reqURL := fmt.Sprintf("%s/xrefs/symbol/%s/%s",
		strings.TrimRight(cfg.BaseURL, "/"),
		url.PathEscape(strings.ToLower(species)),
		url.PathEscape(gene))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("Ensembl xrefs request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return "", err
	}

	var entries []xrefEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("parsing Ensembl xrefs response: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no cross-references for %s in %s", gene, species)
	}
	if entries[0].ID == "" {
		return "", fmt.Errorf("first cross-reference for %s in %s has no id", gene, species)
	}
	return entries[0].ID, nil
}
