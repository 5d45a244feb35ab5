// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dataset-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dataset-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the dataset-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "dataset-engine",
	Short: "Pipeline and analyses for the classic teaching datasets",
	Long: `dataset-engine downloads the classic teaching datasets (Titanic
passengers, Airparif air quality, bike accidents, the babies survey,
French departments), normalizes their CSV dialects into canonical files,
and runs the usual course analyses on them from the command line.

The pipeline stages are subcommands: acquire, convert, clean and catalog
manage the data directory; inspect, select, group, pivot, profile, dist,
join and graph compute on canonical CSVs. Analysis commands accept
--save to keep the result as a YAML report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dataset-engine.yaml or ~/.config/dataset-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dataset-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dataset-engine"))
		}
	}

	viper.SetEnvPrefix("DATASET_ENGINE")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers the directory layout defaults so a bare config
// file only needs to override what differs.
func setDefaults() {
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("recipes_dir", "recipes")
	viper.SetDefault("reports_dir", "reports")
	viper.SetDefault("max_results", 20)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
