// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package uniprot resolves UniProt accessions to protein records using the
// EBI Proteins API. Each accession is looked up independently; a failed
// lookup is logged and skipped without affecting the others.
package uniprot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Jeffail/gabs"
	"go.uber.org/zap"

	"github.com/pdiddy/protein-annotator/internal/httputil"
	"github.com/pdiddy/protein-annotator/pkg/types"
)

// DefaultBaseURL is the public Proteins API root.
const DefaultBaseURL = "https://www.ebi.ac.uk/proteins/api"

// ErrMissingField is wrapped by errors for records lacking an expected field.
var ErrMissingField = errors.New("missing field")

// Paths into the Proteins API record.
const (
	pathProteinName   = "protein.recommendedName.fullName.value"
	pathGenes         = "gene"
	pathGeneName      = "name.value"
	pathOrganismNames = "organism.names"
	pathMass          = "sequence.mass"
)

// BatchResult holds the outcome of resolving a list of accessions.
type BatchResult struct {
	Records []types.ProteinRecord
	Failed  int
}

// Total returns the number of accessions processed.
func (r BatchResult) Total() int {
	return len(r.Records) + r.Failed
}

// HasFailures reports whether any accession was skipped.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ResolveProteins looks up each accession in order and returns one record
// per accession that resolved. Failures are logged with the accession and
// skipped. The returned error is non-nil only when ctx is cancelled, in
// which case the result holds the records resolved so far.
func ResolveProteins(ctx context.Context, client *http.Client, accessions []string, cfg types.UniProtConfig, log *zap.Logger) (BatchResult, error) {
	log.Info("getting protein information from UniProt", zap.Int("accessions", len(accessions)))

	var result BatchResult
	for _, acc := range accessions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := FetchProtein(ctx, client, acc, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			msg := "error resolving accession, other accessions will still be processed"
			if httputil.IsStatusError(err) {
				msg = "HTTP error resolving accession, other accessions will still be processed"
			}
			log.Warn(msg, zap.String("accession", acc), zap.Error(err))
			result.Failed++
			continue
		}
		log.Debug("resolved accession", zap.String("accession", acc), zap.String("gene", rec.Gene))
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// FetchProtein retrieves and parses the Proteins API record for one accession.
func FetchProtein(ctx context.Context, client *http.Client, accession string, cfg types.UniProtConfig) (types.ProteinRecord, error) {
	reqURL := strings.TrimRight(cfg.BaseURL, "/") + "/proteins/" + url.PathEscape(accession)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.ProteinRecord{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return types.ProteinRecord{}, fmt.Errorf("UniProt API request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return types.ProteinRecord{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.ProteinRecord{}, fmt.Errorf("reading UniProt response: %w", err)
	}

	doc, err := gabs.ParseJSON(body)
	if err != nil {
		return types.ProteinRecord{}, fmt.Errorf("parsing UniProt response: %w", err)
	}
	return parseProtein(accession, doc)
}

// parseProtein extracts a ProteinRecord from a Proteins API document.
func parseProtein(accession string, doc *gabs.Container) (types.ProteinRecord, error) {
	rec := types.ProteinRecord{Accession: accession}

	var err error
	if rec.ProteinName, err = stringAt(doc, pathProteinName); err != nil {
		return types.ProteinRecord{}, err
	}

	firstGene := doc.Path(pathGenes).Index(0)
	if rec.Gene, err = stringAt(firstGene, pathGeneName); err != nil {
		return types.ProteinRecord{}, fmt.Errorf("%w: gene[0].%s", ErrMissingField, pathGeneName)
	}

	if rec.OrganismScientific, rec.OrganismCommon, err = organismNames(doc); err != nil {
		return types.ProteinRecord{}, err
	}

	if rec.MolecularWeight, err = intAt(doc, pathMass); err != nil {
		return types.ProteinRecord{}, err
	}
	return rec, nil
}

// organismNames returns the scientific and common organism names. Entries
// are matched by their "type" tag; when no entry carries one, the first and
// second entries are taken as scientific and common name.
func organismNames(doc *gabs.Container) (scientific, common string, err error) {
	entries, err := doc.Path(pathOrganismNames).Children()
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrMissingField, pathOrganismNames)
	}

	tagged := false
	for _, e := range entries {
		typ, _ := e.Path("type").Data().(string)
		val, _ := e.Path("value").Data().(string)
		if typ != "" {
			tagged = true
		}
		switch typ {
		case "scientific":
			if scientific == "" {
				scientific = val
			}
		case "common":
			if common == "" {
				common = val
			}
		}
	}

	if !tagged {
		if len(entries) > 0 {
			scientific, _ = entries[0].Path("value").Data().(string)
		}
		if len(entries) > 1 {
			common, _ = entries[1].Path("value").Data().(string)
		}
	}

	if scientific == "" {
		return "", "", fmt.Errorf("%w: scientific organism name", ErrMissingField)
	}
	if common == "" {
		return "", "", fmt.Errorf("%w: common organism name", ErrMissingField)
	}
	return scientific, common, nil
}

func stringAt(c *gabs.Container, path string) (string, error) {
	s, ok := c.Path(path).Data().(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, path)
	}
	return s, nil
}

func intAt(c *gabs.Container, path string) (int64, error) {
	switch v := c.Path(path).Data().(type) {
	case float64:
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", path, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrMissingField, path)
	}
}
