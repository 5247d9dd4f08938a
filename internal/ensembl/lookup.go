// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ensembl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/protein-annotator/internal/httputil"
	"github.com/pdiddy/protein-annotator/pkg/types"
)

// ErrAnnotationFailed is wrapped by every error FetchGeneAnnotations returns.
// The batch call is all-or-nothing, so callers treat it as fatal for the run.
var ErrAnnotationFailed = errors.New("gene annotation lookup failed")

type lookupRequest struct {
	IDs []string `json:"ids"`
}

// lookupGene is the subset of a lookup/id record we keep. Description may be
// null for genes without one.
type lookupGene struct {
	ID            string  `json:"id"`
	Description   *string `json:"description"`
	SeqRegionName string  `json:"seq_region_name"`
}

// FetchGeneAnnotations submits all gene IDs in one lookup/id request and
// returns one annotation per ID found in the response, in submission order.
// Empty IDs are dropped and duplicates are submitted once. When no IDs
// remain no request is made.
func FetchGeneAnnotations(ctx context.Context, client *http.Client, geneIDs []string, cfg types.EnsemblConfig, log *zap.Logger) ([]types.GeneAnnotation, error) {
	ids := uniqueIDs(geneIDs)
	log.Info("getting gene information from Ensembl", zap.Int("ids", len(ids)))
	if len(ids) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(lookupRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrAnnotationFailed, err)
	}

	reqURL := strings.TrimRight(cfg.BaseURL, "/") + "/lookup/id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrAnnotationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: Ensembl lookup request: %w", ErrAnnotationFailed, err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnnotationFailed, err)
	}

	var genes map[string]*lookupGene
	if err := json.NewDecoder(resp.Body).Decode(&genes); err != nil {
		return nil, fmt.Errorf("%w: parsing Ensembl lookup response: %v", ErrAnnotationFailed, err)
	}
	if genes == nil {
		return nil, fmt.Errorf("%w: Ensembl lookup response is not an object", ErrAnnotationFailed)
	}

	annotations := make([]types.GeneAnnotation, 0, len(ids))
	for _, id := range ids {
		g, ok := genes[id]
		if !ok || g == nil {
			log.Warn("gene ID not found in Ensembl lookup response", zap.String("gene_id", id))
			continue
		}
		a := types.GeneAnnotation{
			GeneID:        id,
			SeqRegionName: g.SeqRegionName,
		}
		if g.Description != nil {
			a.Description = *g.Description
		}
		annotations = append(annotations, a)
	}
	return annotations, nil
}

// uniqueIDs drops empty IDs and repeats, keeping first-appearance order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// GeneIDs returns the GeneID column of a cross-referenced table, including
// empty entries for rows whose lookup failed.
func GeneIDs(records []types.CrossRefRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.GeneID
	}
	return ids
}
