package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/protein-annotator/internal/ensembl"
	"github.com/pdiddy/protein-annotator/internal/export"
	"github.com/pdiddy/protein-annotator/internal/uniprot"
	"github.com/pdiddy/protein-annotator/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "protein-annotator/0.1"
	defaultMaxRetries = 3
	defaultLogLevel   = "info"
)

// Configuration keys. Each can be set in the config file or through a
// PROTEIN_ANNOTATOR_-prefixed environment variable (e.g. PROTEIN_ANNOTATOR_TIMEOUT).
const (
	keyUniProtBaseURL = "uniprot_base_url"
	keyEnsemblBaseURL = "ensembl_base_url"
	keyTimeout        = "timeout"
	keyUserAgent      = "user_agent"
	keyMaxRetries     = "max_retries"
	keyOutput         = "output"
	keyDB             = "db"
	keyLogLevel       = "log_level"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyUniProtBaseURL, uniprot.DefaultBaseURL)
	v.SetDefault(keyEnsemblBaseURL, ensembl.DefaultBaseURL)
	v.SetDefault(keyTimeout, defaultTimeout)
	v.SetDefault(keyUserAgent, defaultUserAgent)
	v.SetDefault(keyMaxRetries, defaultMaxRetries)
	v.SetDefault(keyOutput, export.DefaultOutput)
	v.SetDefault(keyLogLevel, defaultLogLevel)
}

// buildConfig assembles and validates the pipeline configuration from v.
func buildConfig(v *viper.Viper) (types.PipelineConfig, error) {
	httpCfg := types.HTTPConfig{
		Timeout:    v.GetDuration(keyTimeout),
		UserAgent:  v.GetString(keyUserAgent),
		MaxRetries: v.GetInt(keyMaxRetries),
	}

	cfg := types.PipelineConfig{
		UniProt: types.UniProtConfig{
			HTTPConfig: httpCfg,
			BaseURL:    v.GetString(keyUniProtBaseURL),
		},
		Ensembl: types.EnsemblConfig{
			HTTPConfig: httpCfg,
			BaseURL:    v.GetString(keyEnsemblBaseURL),
		},
		Export: types.ExportConfig{
			Output: v.GetString(keyOutput),
			DBPath: v.GetString(keyDB),
		},
		LogLevel: v.GetString(keyLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return types.PipelineConfig{}, err
	}
	return cfg, nil
}
