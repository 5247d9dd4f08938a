// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "protein-annotator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" validate:"required"`

	// MaxRetries bounds the retries on HTTP 429 responses. Zero disables them.
	MaxRetries int `json:"max_retries" yaml:"max_retries" validate:"gte=0,lte=10"`
}

// UniProtConfig holds settings for the protein resolver.
type UniProtConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the UniProt Proteins API root (e.g. "https://www.ebi.ac.uk/proteins/api").
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`
}

// EnsemblConfig holds settings for the cross-reference and gene lookups.
type EnsemblConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the Ensembl REST root (e.g. "https://rest.ensembl.org").
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`
}

// ExportConfig holds settings for the merged-table outputs.
type ExportConfig struct {
	// Output is the spreadsheet path, overwritten on each run.
	Output string `json:"output" yaml:"output" validate:"required"`

	// DBPath enables run persistence to a SQLite database when non-empty.
	DBPath string `json:"db,omitempty" yaml:"db,omitempty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	UniProt  UniProtConfig `json:"uniprot" yaml:"uniprot"`
	Ensembl  EnsemblConfig `json:"ensembl" yaml:"ensembl"`
	Export   ExportConfig  `json:"export" yaml:"export"`
	LogLevel string        `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Validate checks field constraints declared in the struct tags.
func (c PipelineConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
