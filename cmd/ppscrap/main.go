// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ppscrap CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, else the secret value
// for key if it exists, else the PPSCRAP_APIKEY environment variable.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return viper.GetString("apikey")
}

// runStamp formats the wall-clock run start used in default output
// names. Computed once per command invocation and passed down
// explicitly.
func runStamp() string {
	return time.Now().Format("20060102_150405")
}

// rootCmd is the base command for the ppscrap CLI.
var rootCmd = &cobra.Command{
	Use:   "ppscrap",
	Short: "Scrape conference papers and classify their topic relevance",
	Long: `ppscrap discovers candidate research papers from a conference listing,
enriches each with author and abstract metadata, and classifies each
paper's relevance to a topic using a language-model judge.

Each pipeline stage is a subcommand: scrape fetches and enriches the
paper list, classify runs the judge over it, filter narrows a finished
report by verdict, and store archives reports for later querying.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ppscrap.yaml or ~/.config/ppscrap/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ppscrap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ppscrap"))
		}
	}

	viper.SetEnvPrefix("PPSCRAP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
