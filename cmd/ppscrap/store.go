// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/store"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Archive classification reports and query past runs",
	Long: `Store keeps finished classification reports in a SQLite archive with a
full-text index over titles and abstracts. Use subcommands to index
reports, query them by text and verdict, or export the archive.`,
}

func init() {
	storeCmd.PersistentFlags().String("archive-dir", "archive", "base directory for the archive (contains index/)")

	rootCmd.AddCommand(storeCmd)
}

func openStore(cmd *cobra.Command, maxResults int) (*store.Store, error) {
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	return store.NewStore(types.StoreConfig{
		ArchiveDir: archiveDir,
		MaxResults: maxResults,
	})
}

// --- index subcommand ---

var storeIndexCmd = &cobra.Command{
	Use:   "index [reports...]",
	Short: "Ingest classification reports into the archive",
	Long: `Index ingests one or more report files into the archive database.
Unchanged reports are skipped on subsequent runs; changed reports
replace their previous results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStoreIndex,
}

func runStoreIndex(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd, 0)
	if err != nil {
		return err
	}
	defer s.Close()

	failed := 0
	for _, path := range args {
		if _, err := s.Index(context.Background(), path, os.Stdout); err != nil {
			fmt.Printf("failed  %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d report(s) failed indexing", failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the archive with full-text search and filters",
	Long: `Query searches archived results with FTS5 full-text search over titles
and abstracts, optionally filtered by verdict, venue, or year.`,
	RunE: runStoreQuery,
}

func init() {
	storeQueryCmd.Flags().String("verdict", "", "filter by verdict: -1, 0, or 1")
	storeQueryCmd.Flags().String("venue", "", "filter by conference label")
	storeQueryCmd.Flags().String("year", "", "filter by conference year")
	storeQueryCmd.Flags().Int("max-results", 20, "maximum number of query results")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	storeCmd.AddCommand(storeIndexCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeExportCmd)
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	asJSON, _ := cmd.Flags().GetBool("json")
	venue, _ := cmd.Flags().GetString("venue")
	year, _ := cmd.Flags().GetString("year")
	verdictFlag, _ := cmd.Flags().GetString("verdict")

	opts := store.QueryOptions{
		Venue:      venue,
		Year:       year,
		MaxResults: maxResults,
	}
	if len(args) > 0 {
		opts.Query = args[0]
	}
	if verdictFlag != "" {
		n, err := strconv.Atoi(verdictFlag)
		if err != nil || !types.Verdict(n).Valid() {
			return fmt.Errorf("invalid --verdict %q: expected -1, 0, or 1", verdictFlag)
		}
		v := types.Verdict(n)
		opts.Verdict = &v
	}

	if opts.IsEmpty() {
		return fmt.Errorf("provide a search text or at least one filter")
	}

	s, err := openStore(cmd, maxResults)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	if asJSON {
		return store.FormatJSON(results, os.Stdout)
	}
	store.FormatTable(results, os.Stdout)
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd, 0)
		if err != nil {
			return err
		}
		defer s.Close()

		path, err := s.ExportYAML(context.Background(), store.QueryOptions{})
		if err != nil {
			return err
		}
		fmt.Printf("archive exported to %s\n", path)
		return nil
	},
}
