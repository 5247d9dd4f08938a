package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/protein-annotator/internal/export"
	"github.com/pdiddy/protein-annotator/internal/pipeline"
	"github.com/pdiddy/protein-annotator/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg, err := buildConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "https://www.ebi.ac.uk/proteins/api", cfg.UniProt.BaseURL)
	assert.Equal(t, "https://rest.ensembl.org", cfg.Ensembl.BaseURL)
	assert.Equal(t, defaultTimeout, cfg.UniProt.Timeout)
	assert.Equal(t, defaultTimeout, cfg.Ensembl.Timeout)
	assert.Equal(t, defaultUserAgent, cfg.Ensembl.UserAgent)
	assert.Equal(t, defaultMaxRetries, cfg.UniProt.MaxRetries)
	assert.Equal(t, export.DefaultOutput, cfg.Export.Output)
	assert.Empty(t, cfg.Export.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestBuildConfig_Overrides(t *testing.T) {
	v := newTestViper()
	v.Set(keyUniProtBaseURL, "http://localhost:8080/uniprot")
	v.Set(keyTimeout, "5s")
	v.Set(keyOutput, "out/result.xlsx")
	v.Set(keyDB, "runs.db")
	v.Set(keyLogLevel, "debug")

	cfg, err := buildConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/uniprot", cfg.UniProt.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.UniProt.Timeout)
	assert.Equal(t, "out/result.xlsx", cfg.Export.Output)
	assert.Equal(t, "runs.db", cfg.Export.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestBuildConfig_ZeroRetries(t *testing.T) {
	v := newTestViper()
	v.Set(keyMaxRetries, 0)

	cfg, err := buildConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.UniProt.MaxRetries)
	assert.Equal(t, 0, cfg.Ensembl.MaxRetries)
}

func TestBuildConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"bad base URL", keyEnsemblBaseURL, "not a url"},
		{"zero timeout", keyTimeout, "0s"},
		{"unknown log level", keyLogLevel, "verbose"},
		{"empty output", keyOutput, ""},
		{"too many retries", keyMaxRetries, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper()
			v.Set(tt.key, tt.val)
			_, err := buildConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestSelectAccessions(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "accessions.yaml")
	require.NoError(t, os.WriteFile(file, []byte("accessions:\n  - P69905\n  - P68871\n"), 0o644))

	t.Run("arguments win", func(t *testing.T) {
		got, err := selectAccessions([]string{"Q9Y6K9"}, file)
		require.NoError(t, err)
		assert.Equal(t, []string{"Q9Y6K9"}, got)
	})

	t.Run("file when no arguments", func(t *testing.T) {
		got, err := selectAccessions(nil, file)
		require.NoError(t, err)
		assert.Equal(t, []string{"P69905", "P68871"}, got)
	})

	t.Run("default list", func(t *testing.T) {
		got, err := selectAccessions(nil, "")
		require.NoError(t, err)
		assert.Equal(t, pipeline.DefaultAccessions, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := selectAccessions(nil, filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestFormatRuns(t *testing.T) {
	var buf bytes.Buffer
	formatRuns([]types.RunSummary{{
		RunID:      "2f1c9a8e-5b7d-4c1e-9a3f-0d6e8b2c4a71",
		Requested:  3,
		Resolved:   3,
		Annotated:  3,
		Rows:       3,
		OutputPath: "protein_gene_analysis.xlsx",
		StartedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}, &buf)

	out := buf.String()
	assert.Contains(t, out, "2f1c9a8e-5b7d-4c1e-9a3f-0d6e8b2c4a71")
	assert.Contains(t, out, "protein_gene_analysis.xlsx")
	assert.Contains(t, out, "1 runs")
}

func TestFormatRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatRuns(nil, &buf)
	assert.Equal(t, "No runs recorded.\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "protein-annotator "+version+"\n", buf.String())
}
