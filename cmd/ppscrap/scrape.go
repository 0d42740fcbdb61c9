package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/checkpoint"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/scrape"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultJitter    = 1 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch candidate papers from a conference listing",
	Long: `Scrape downloads the accepted-papers listing for a conference, keeps
the titles matching the search pattern, and visits each paper's detail
page for authors and abstract. Enriched records are checkpointed one
per line as they arrive, so an interrupted run loses at most the
in-flight paper.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringP("conf", "c", "", "conference label (supported: cvpr, iccv, wacv)")
	scrapeCmd.Flags().StringP("year", "y", "2025", "conference year")
	scrapeCmd.Flags().StringP("search", "s", "", "title keyword pattern, regex supported, e.g. \"(transformer|llm|language model)\"")
	scrapeCmd.Flags().StringP("input", "i", "", "previously exported listing JSON; skips the listing fetch")
	scrapeCmd.Flags().StringP("output", "o", "", "output file for enriched paper records")
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	scrapeCmd.Flags().Duration("delay", 0, "base delay between detail fetches (default 1s)")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	conf, _ := cmd.Flags().GetString("conf")
	year, _ := cmd.Flags().GetString("year")
	search, _ := cmd.Flags().GetString("search")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	if conf == "" {
		return fmt.Errorf("provide a conference label with --conf")
	}
	if search == "" {
		return fmt.Errorf("provide a title search pattern with --search")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		FetchDelay:  delay,
		FetchJitter: defaultJitter,
	}

	site, err := scrape.SiteFor(conf)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Timeout}
	ctx := context.Background()
	stamp := runStamp()

	// Full listing: either reloaded from a previous export or fetched fresh.
	var papers []types.PaperRecord
	if input != "" {
		papers, err = readPaperList(input)
		if err != nil {
			return err
		}
	} else {
		papers, err = scrape.FetchListing(ctx, client, site, conf, year, cfg, os.Stdout)
		if err != nil {
			return err
		}
		listingPath := fmt.Sprintf("all_papers_%s_%s_%s.json", conf, year, stamp)
		if err := writePaperList(listingPath, papers); err != nil {
			return err
		}
		fmt.Printf("full listing saved to %s\n", listingPath)
	}

	if len(papers) == 0 {
		return fmt.Errorf("0 papers found, abort")
	}

	targets, err := scrape.FilterTitles(papers, search)
	if err != nil {
		return err
	}
	fmt.Printf("filtered %d papers whose title matches pattern %q\n", len(targets), search)
	if len(targets) == 0 {
		return nil
	}

	if output == "" {
		output = fmt.Sprintf("paper_result_%s_%s_%s.json", conf, year, stamp)
	}

	log, err := checkpoint.Open(output + "l")
	if err != nil {
		return err
	}

	result, err := scrape.FetchDetails(ctx, client, site, targets, cfg, log, os.Stdout)
	if err != nil {
		log.Close()
		return err
	}

	if err := writePaperList(output, result.Papers); err != nil {
		log.Close()
		return fmt.Errorf("writing results (checkpoint %s kept): %w", log.Path(), err)
	}
	if err := log.Remove(); err != nil {
		return err
	}

	fmt.Printf("finished: %d papers info fetched, saved to %s\n", result.Fetched, output)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed detail fetch", result.Failed)
	}
	return nil
}

func readPaperList(path string) ([]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading paper list %s: %w", path, err)
	}
	var papers []types.PaperRecord
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing paper list %s: %w", path, err)
	}
	return papers, nil
}

func writePaperList(path string, papers []types.PaperRecord) error {
	data, err := json.MarshalIndent(papers, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling paper list: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing paper list %s: %w", path, err)
	}
	return nil
}
