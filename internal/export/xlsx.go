// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes merged protein/gene rows to a spreadsheet and
// renders them as a plain-text table.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/protein-annotator/pkg/types"
)

// DefaultOutput is the spreadsheet written when no output path is configured.
const DefaultOutput = "protein_gene_analysis.xlsx"

// Columns is the header row of the exported table, in column order.
var Columns = []string{
	"Protein Accession",
	"Protein Name",
	"Gene",
	"Organism (Scientific)",
	"Organism (Common)",
	"Molecular Weight (Da)",
	"Ensembl Gene ID",
	"Description",
	"Seq Region Name",
}

// Values returns the cells of row in Columns order. Fields of a missing
// join side are nil.
func Values(row types.MergedRow) []any {
	v := make([]any, len(Columns))
	if p := row.Protein; p != nil {
		v[0] = p.Accession
		v[1] = p.ProteinName
		v[2] = p.Gene
		v[3] = p.OrganismScientific
		v[4] = p.OrganismCommon
		v[5] = p.MolecularWeight
	}
	if row.GeneID != "" {
		v[6] = row.GeneID
	}
	if g := row.Gene; g != nil {
		v[7] = g.Description
		v[8] = g.SeqRegionName
	}
	return v
}

// WriteXLSX writes a header row followed by one row per merged record to
// path, replacing any existing file. The workbook is written to a temporary
// file in the same directory and renamed on success, so a failed write
// leaves no partial output.
func WriteXLSX(path string, rows []types.MergedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for c, name := range Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for r, row := range rows {
		for c, v := range Values(row) {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", r+1, err)
			}
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".export-*.xlsx.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := f.Write(tmpFile)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing workbook: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
