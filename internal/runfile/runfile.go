// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runfile reads accession lists from YAML and writes run summaries
// back to YAML. The same file shape serves both: a summary file can be fed
// back in to repeat a run over the same accessions.
package runfile

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/protein-annotator/pkg/types"
)

// RunFile is the on-disk representation of a run's input and outcome.
type RunFile struct {
	Accessions []string          `yaml:"accessions"`
	Summary    *types.RunSummary `yaml:"summary,omitempty"`
}

// ReadAccessions loads the accession list from a run file. Entries are
// trimmed and blank entries dropped; duplicates are kept.
func ReadAccessions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading accession file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing accession file: %w", err)
	}

	var out []string
	for _, a := range rf.Accessions {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("accession file %s lists no accessions", path)
	}
	return out, nil
}

// WriteSummary saves the accessions and run summary to a YAML file.
func WriteSummary(path string, accessions []string, summary types.RunSummary) error {
	rf := RunFile{
		Accessions: accessions,
		Summary:    &summary,
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
