// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the annotation stages in order: UniProt protein
// lookup, Ensembl cross-reference, Ensembl batch gene lookup, outer join,
// and export. Per-item failures in the first two stages are absorbed by the
// stages themselves; a failed batch lookup ends the run before anything is
// written.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/protein-annotator/internal/ensembl"
	"github.com/pdiddy/protein-annotator/internal/export"
	"github.com/pdiddy/protein-annotator/internal/merge"
	"github.com/pdiddy/protein-annotator/internal/uniprot"
	"github.com/pdiddy/protein-annotator/pkg/types"
)

// DefaultAccessions is the example input used when none are given.
var DefaultAccessions = []string{"P12345", "Q8N726", "O00255"}

// RunSaver persists a finished run.
type RunSaver interface {
	SaveRun(ctx context.Context, summary types.RunSummary, rows []types.MergedRow) error
}

// Pipeline holds the collaborators shared by all stages.
type Pipeline struct {
	Client *http.Client
	Config types.PipelineConfig
	Log    *zap.Logger

	// Saver is optional; when set, each successful run is persisted after export.
	Saver RunSaver

	// now and newID are replaced in tests.
	now   func() time.Time
	newID func() string
}

// New returns a Pipeline using client for every remote call.
func New(client *http.Client, cfg types.PipelineConfig, log *zap.Logger) *Pipeline {
	return &Pipeline{
		Client: client,
		Config: cfg,
		Log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Result is the outcome of a completed run.
type Result struct {
	Summary types.RunSummary
	Rows    []types.MergedRow
}

// Run executes all stages for accessions and writes the merged table to the
// configured output path. The returned error wraps ensembl.ErrAnnotationFailed
// when the batch gene lookup fails; no output is written in that case.
func (p *Pipeline) Run(ctx context.Context, accessions []string) (Result, error) {
	summary := types.RunSummary{
		RunID:      p.newID(),
		Requested:  len(accessions),
		OutputPath: p.Config.Export.Output,
		StartedAt:  p.now(),
	}
	log := p.Log.With(zap.String("run_id", summary.RunID))

	proteins, err := uniprot.ResolveProteins(ctx, p.Client, accessions, p.Config.UniProt, log)
	if err != nil {
		return Result{}, fmt.Errorf("resolving proteins: %w", err)
	}
	summary.Resolved = len(proteins.Records)
	summary.Failed = proteins.Failed
	if proteins.HasFailures() {
		log.Warn("some accessions could not be resolved",
			zap.Int("failed", proteins.Failed), zap.Int("processed", proteins.Total()))
	}

	xrefs, xrefFailed, err := ensembl.ResolveGeneIDs(ctx, p.Client, proteins.Records, p.Config.Ensembl, log)
	if err != nil {
		return Result{}, fmt.Errorf("resolving gene IDs: %w", err)
	}
	summary.CrossRefFailed = xrefFailed

	genes, err := ensembl.FetchGeneAnnotations(ctx, p.Client, ensembl.GeneIDs(xrefs), p.Config.Ensembl, log)
	if err != nil {
		log.Error("fetching Ensembl gene data failed, terminating run", zap.Error(err))
		return Result{}, err
	}
	summary.Annotated = len(genes)

	rows := merge.OuterJoin(xrefs, genes)
	summary.Rows = len(rows)

	log.Info("writing results", zap.String("path", p.Config.Export.Output), zap.Int("rows", len(rows)))
	if err := export.WriteXLSX(p.Config.Export.Output, rows); err != nil {
		return Result{}, fmt.Errorf("exporting results: %w", err)
	}
	summary.FinishedAt = p.now()

	if p.Saver != nil {
		if err := p.Saver.SaveRun(ctx, summary, rows); err != nil {
			return Result{Summary: summary, Rows: rows}, fmt.Errorf("saving run: %w", err)
		}
	}

	complete := 0
	for _, r := range rows {
		if r.Complete() {
			complete++
		}
	}

	log.Info("run complete",
		zap.Int("requested", summary.Requested),
		zap.Int("resolved", summary.Resolved),
		zap.Int("failed", summary.Failed),
		zap.Int("crossref_failed", summary.CrossRefFailed),
		zap.Int("annotated", summary.Annotated),
		zap.Int("rows", summary.Rows),
		zap.Int("complete_rows", complete))

	return Result{Summary: summary, Rows: rows}, nil
}
