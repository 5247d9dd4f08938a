// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the protein-annotator CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the protein-annotator CLI.
var rootCmd = &cobra.Command{
	Use:   "protein-annotator",
	Short: "Annotate UniProt proteins with Ensembl gene data",
	Long: `protein-annotator looks up UniProt accessions in the EBI Proteins API,
resolves each protein's gene to an Ensembl gene ID, fetches the Ensembl gene
records in one batch, and writes the joined table to a spreadsheet.

Runs can optionally be recorded in a SQLite database and listed later with
the runs subcommand.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Variables from .env feed viper's automatic env lookup.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./protein-annotator.yaml or ~/.config/protein-annotator/protein-annotator.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("protein-annotator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "protein-annotator"))
		}
	}

	viper.SetEnvPrefix("PROTEIN_ANNOTATOR")
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
