// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the protein-annotator pipeline:
// the per-stage record types, the merged export row, the run summary, and the
// configuration structs.
package types

import "time"

// ProteinRecord holds the metadata resolved for one UniProt accession.
type ProteinRecord struct {
	// Accession is the UniProt accession as it was requested (e.g. "P12345").
	Accession string `json:"accession" yaml:"accession"`

	// ProteinName is the recommended full name.
	ProteinName string `json:"protein_name" yaml:"protein_name"`

	// Gene is the first listed gene symbol.
	Gene string `json:"gene" yaml:"gene"`

	// OrganismScientific is the scientific organism name (e.g. "Homo sapiens").
	OrganismScientific string `json:"organism_scientific" yaml:"organism_scientific"`

	// OrganismCommon is the common organism name (e.g. "Human").
	OrganismCommon string `json:"organism_common" yaml:"organism_common"`

	// MolecularWeight is the sequence mass in Daltons.
	MolecularWeight int64 `json:"molecular_weight" yaml:"molecular_weight"`
}

// CrossRefRecord is a ProteinRecord with its Ensembl gene ID appended.
// GeneID is empty when the cross-reference lookup for the row failed.
type CrossRefRecord struct {
	ProteinRecord `yaml:",inline"`

	GeneID string `json:"gene_id,omitempty" yaml:"gene_id,omitempty"`
}

// HasGeneID reports whether the cross-reference lookup succeeded for the row.
func (r CrossRefRecord) HasGeneID() bool {
	return r.GeneID != ""
}

// GeneAnnotation holds the descriptive metadata Ensembl returns for a gene ID.
type GeneAnnotation struct {
	GeneID        string `json:"gene_id" yaml:"gene_id"`
	Description   string `json:"description" yaml:"description"`
	SeqRegionName string `json:"seq_region_name" yaml:"seq_region_name"`
}

// MergedRow is one row of the outer join between cross-referenced proteins
// and gene annotations. Protein is nil for annotations no protein row matched;
// Gene is nil for protein rows without a matching annotation.
type MergedRow struct {
	GeneID  string          `json:"gene_id,omitempty" yaml:"gene_id,omitempty"`
	Protein *CrossRefRecord `json:"protein,omitempty" yaml:"protein,omitempty"`
	Gene    *GeneAnnotation `json:"gene,omitempty" yaml:"gene,omitempty"`
}

// Complete reports whether both sides of the join are present.
func (r MergedRow) Complete() bool {
	return r.Protein != nil && r.Gene != nil
}

// RunSummary records the outcome of one pipeline run.
type RunSummary struct {
	RunID string `json:"run_id" yaml:"run_id"`

	// Requested is the number of accessions given as input.
	Requested int `json:"requested" yaml:"requested"`

	// Resolved is the number of accessions the protein resolver returned a record for.
	Resolved int `json:"resolved" yaml:"resolved"`

	// Failed is the number of accessions the protein resolver skipped.
	Failed int `json:"failed" yaml:"failed"`

	// CrossRefFailed counts rows left without an Ensembl gene ID.
	CrossRefFailed int `json:"crossref_failed" yaml:"crossref_failed"`

	// Annotated is the number of gene annotations returned by the batch lookup.
	Annotated int `json:"annotated" yaml:"annotated"`

	// Rows is the number of merged rows written to the output.
	Rows int `json:"rows" yaml:"rows"`

	OutputPath string    `json:"output_path" yaml:"output_path"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
