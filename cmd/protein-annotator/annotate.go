// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/protein-annotator/internal/export"
	"github.com/pdiddy/protein-annotator/internal/logging"
	"github.com/pdiddy/protein-annotator/internal/pipeline"
	"github.com/pdiddy/protein-annotator/internal/runfile"
	"github.com/pdiddy/protein-annotator/internal/store"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [accessions...]",
	Short: "Resolve UniProt accessions to Ensembl genes and write a spreadsheet",
	Long: `Annotate fetches each UniProt accession from the EBI Proteins API, maps the
protein's gene symbol to an Ensembl gene ID, looks up all gene IDs in one
Ensembl batch request, and writes the outer join of both tables to an XLSX
file.

Accessions come from the arguments, then --accessions-file, then a built-in
example list (P12345 Q8N726 O00255). Accessions that fail to resolve are
logged and skipped. A failed batch gene lookup ends the run without writing
any output.`,
	Example: `  protein-annotator annotate
  protein-annotator annotate P12345 Q8N726 --print
  protein-annotator annotate --accessions-file accessions.yaml --db runs.db`,
	SilenceUsage: true,
	RunE:         runAnnotate,
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(viper.GetViper())
	if err != nil {
		return err
	}

	accessionsFile, _ := cmd.Flags().GetString("accessions-file")
	accessions, err := selectAccessions(args, accessionsFile)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p := pipeline.New(&http.Client{Timeout: cfg.UniProt.Timeout}, cfg, log)

	if cfg.Export.DBPath != "" {
		st, err := store.NewStore(cfg.Export.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		p.Saver = st
	}

	log.Info("starting run", zap.Int("accessions", len(accessions)))
	result, err := p.Run(ctx, accessions)
	if err != nil {
		return err
	}

	if printTable, _ := cmd.Flags().GetBool("print"); printTable {
		export.FormatTable(result.Rows, cmd.OutOrStdout())
	}

	if summaryPath, _ := cmd.Flags().GetString("summary"); summaryPath != "" {
		if err := runfile.WriteSummary(summaryPath, accessions, result.Summary); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s (run %s)\n",
		result.Summary.Rows, result.Summary.OutputPath, result.Summary.RunID)
	return nil
}

// selectAccessions picks the run input: explicit arguments first, then the
// accessions file, then the built-in example list.
func selectAccessions(args []string, accessionsFile string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if accessionsFile != "" {
		return runfile.ReadAccessions(accessionsFile)
	}
	return pipeline.DefaultAccessions, nil
}

func init() {
	annotateCmd.Flags().StringP("output", "o", export.DefaultOutput, "path of the XLSX file to write")
	annotateCmd.Flags().String("accessions-file", "", "YAML file with an accessions list")
	annotateCmd.Flags().String("db", "", "SQLite database to record the run in")
	annotateCmd.Flags().Bool("print", false, "print the merged table to stdout")
	annotateCmd.Flags().Duration("timeout", defaultTimeout, "per-request HTTP timeout")
	annotateCmd.Flags().String("summary", "", "write a YAML run summary to this path")

	_ = viper.BindPFlag(keyOutput, annotateCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag(keyDB, annotateCmd.Flags().Lookup("db"))
	_ = viper.BindPFlag(keyTimeout, annotateCmd.Flags().Lookup("timeout"))

	rootCmd.AddCommand(annotateCmd)
}
