// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline runs and their merged rows in SQLite so
// earlier results can be inspected without calling the remote services again.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/protein-annotator/pkg/types"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the SQLite database at path and creates the
// schema if it does not exist.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			requested INTEGER NOT NULL,
			resolved INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			crossref_failed INTEGER NOT NULL,
			annotated INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			output_path TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS merged_rows (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			gene_id TEXT,
			has_protein INTEGER NOT NULL,
			accession TEXT,
			protein_name TEXT,
			gene TEXT,
			organism_scientific TEXT,
			organism_common TEXT,
			molecular_weight INTEGER,
			has_gene INTEGER NOT NULL,
			description TEXT,
			seq_region_name TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run_id ON merged_rows(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_accession ON merged_rows(accession)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores the run summary and its merged rows in one transaction.
func (s *Store) SaveRun(ctx context.Context, summary types.RunSummary, rows []types.MergedRow) error {
	if summary.RunID == "" {
		return fmt.Errorf("run ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, requested, resolved, failed, crossref_failed, annotated, row_count, output_path, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.Requested, summary.Resolved, summary.Failed,
		summary.CrossRefFailed, summary.Annotated, summary.Rows, summary.OutputPath,
		summary.StartedAt.UTC().Format(timeLayout),
		summary.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", summary.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO merged_rows (run_id, position, gene_id, has_protein, accession, protein_name, gene,
			organism_scientific, organism_common, molecular_weight, has_gene, description, seq_region_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing row insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		var (
			acc, name, gene, sci, common, desc, region sql.NullString
			mass                                       sql.NullInt64
		)
		if p := r.Protein; p != nil {
			acc = nullString(p.Accession)
			name = nullString(p.ProteinName)
			gene = nullString(p.Gene)
			sci = nullString(p.OrganismScientific)
			common = nullString(p.OrganismCommon)
			mass = sql.NullInt64{Int64: p.MolecularWeight, Valid: true}
		}
		if g := r.Gene; g != nil {
			desc = sql.NullString{String: g.Description, Valid: true}
			region = sql.NullString{String: g.SeqRegionName, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			summary.RunID, i, nullString(r.GeneID), r.Protein != nil,
			acc, name, gene, sci, common, mass,
			r.Gene != nil, desc, region,
		); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Rows returns the merged rows stored for runID in their original order.
func (s *Store) Rows(ctx context.Context, runID string) ([]types.MergedRow, error) {
	rs, err := s.db.QueryContext(ctx,
		`SELECT gene_id, has_protein, accession, protein_name, gene, organism_scientific,
			organism_common, molecular_weight, has_gene, description, seq_region_name
		 FROM merged_rows WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rs.Close()

	var out []types.MergedRow
	for rs.Next() {
		var (
			geneID, acc, name, gene, sci, common, desc, region sql.NullString
			mass                                               sql.NullInt64
			hasProtein, hasGene                                bool
		)
		if err := rs.Scan(&geneID, &hasProtein, &acc, &name, &gene, &sci,
			&common, &mass, &hasGene, &desc, &region); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := types.MergedRow{GeneID: geneID.String}
		if hasProtein {
			row.Protein = &types.CrossRefRecord{
				ProteinRecord: types.ProteinRecord{
					Accession:          acc.String,
					ProteinName:        name.String,
					Gene:               gene.String,
					OrganismScientific: sci.String,
					OrganismCommon:     common.String,
					MolecularWeight:    mass.Int64,
				},
				GeneID: geneID.String,
			}
		}
		if hasGene {
			row.Gene = &types.GeneAnnotation{
				GeneID:        geneID.String,
				Description:   desc.String,
				SeqRegionName: region.String,
			}
		}
		out = append(out, row)
	}
	return out, rs.Err()
}

// Runs returns stored run summaries, most recent first.
func (s *Store) Runs(ctx context.Context) ([]types.RunSummary, error) {
	rs, err := s.db.QueryContext(ctx,
		`SELECT id, requested, resolved, failed, crossref_failed, annotated, row_count,
			output_path, started_at, finished_at
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rs.Close()

	var out []types.RunSummary
	for rs.Next() {
		var (
			r                 types.RunSummary
			output            sql.NullString
			started, finished string
		)
		if err := rs.Scan(&r.RunID, &r.Requested, &r.Resolved, &r.Failed, &r.CrossRefFailed,
			&r.Annotated, &r.Rows, &output, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.OutputPath = output.String
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing started_at for run %s: %w", r.RunID, err)
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at for run %s: %w", r.RunID, err)
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
