package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/protein-annotator/internal/export"
	"github.com/pdiddy/protein-annotator/internal/store"
	"github.com/pdiddy/protein-annotator/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs recorded in the SQLite database",
	Long: `Runs lists the runs recorded by annotate --db, most recent first.
With --run, it prints the merged rows stored for that run instead.`,
	SilenceUsage: true,
	RunE:         runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString(keyDB)
	}
	if dbPath == "" {
		return fmt.Errorf("no database: pass --db or set db in the config file")
	}

	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		rows, err := st.Rows(cmd.Context(), runID)
		if err != nil {
			return err
		}
		export.FormatTable(rows, out)
		return nil
	}

	runs, err := st.Runs(cmd.Context())
	if err != nil {
		return err
	}
	formatRuns(runs, out)
	return nil
}

func formatRuns(runs []types.RunSummary, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-19s  %5s  %5s  %5s  %5s  %5s  %s\n",
		"Run", "Started", "Req", "Res", "Fail", "Genes", "Rows", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %5d  %5d  %5d  %5d  %5d  %s\n",
			r.RunID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Requested, r.Resolved, r.Failed, r.Annotated, r.Rows, r.OutputPath)
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func init() {
	runsCmd.Flags().String("db", "", "SQLite database written by annotate --db")
	runsCmd.Flags().String("run", "", "show the merged rows of this run ID")

	rootCmd.AddCommand(runsCmd)
}
