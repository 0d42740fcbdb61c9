// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches candidate papers from a conference listing and
// enriches each with author and abstract metadata from its detail page.
package scrape

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/checkpoint"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/httputil"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// Site abstracts one conference site's page layout. Each site implements
// the listing and detail parsing for its own HTML structure per the
// Strategy pattern, keeping layout assumptions out of the fetch loop.
type Site interface {
	Name() string
	ListingURL(conf, year string) (string, error)
	ParseListing(r io.Reader, base *url.URL) ([]types.PaperRecord, error)
	ParseDetail(r io.Reader) (authors, abstract string, err error)
}

// SiteFor returns the Site implementation that handles the conference,
// or an error for conferences no implementation covers.
func SiteFor(conf string) (Site, error) {
	site := &CVFSite{}
	for _, c := range site.Conferences() {
		if c == conf {
			return site, nil
		}
	}
	return nil, fmt.Errorf("no scraper implemented for conference %q", conf)
}

// FetchListing downloads and parses the full accepted-papers listing.
func FetchListing(ctx context.Context, client *http.Client, site Site, conf, year string, cfg types.ScrapeConfig, w io.Writer) ([]types.PaperRecord, error) {
	listingURL, err := site.ListingURL(conf, year)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "accessing conference papers list page: %s\n", listingURL)

	body, base, err := get(ctx, client, listingURL, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}
	defer body.Close()

	papers, err := site.ParseListing(body, base)
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	fmt.Fprintf(w, "fetched %d papers in total (unfiltered)\n", len(papers))
	return papers, nil
}

// FilterTitles keeps the papers whose title matches the pattern,
// case-insensitively, preserving listing order.
func FilterTitles(papers []types.PaperRecord, pattern string) ([]types.PaperRecord, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
	}

	var matched []types.PaperRecord
	for _, p := range papers {
		if re.MatchString(p.Title) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// BatchResult holds the outcome of a detail-fetch run.
type BatchResult struct {
	Fetched int
	Failed  int
	Papers  []types.PaperRecord
}

// Total returns the number of papers processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Failed
}

// HasFailures reports whether any detail fetches failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchDetails visits each paper's detail page in listing order, fills in
// authors and abstract, and checkpoints every enriched record before
// moving on. Individual failures are reported and skipped; a delay with
// random jitter separates consecutive fetches to stay polite to the site.
func FetchDetails(ctx context.Context, client *http.Client, site Site, papers []types.PaperRecord, cfg types.ScrapeConfig, log *checkpoint.Log, w io.Writer) (BatchResult, error) {
	var result BatchResult

	for i, paper := range papers {
		if i > 0 {
			if err := wait(ctx, fetchDelay(cfg)); err != nil {
				return result, err
			}
		}

		fmt.Fprintf(w, "fetching details %d/%d: %s\n", i+1, len(papers), paper.Title)

		if err := fetchDetail(ctx, client, site, &paper, cfg); err != nil {
			fmt.Fprintf(w, "  failed: %v\n", err)
			result.Failed++
			continue
		}

		result.Papers = append(result.Papers, paper)
		result.Fetched++

		if err := log.Append(paper); err != nil {
			return result, fmt.Errorf("checkpointing %q: %w", paper.Title, err)
		}
	}

	return result, nil
}

func fetchDetail(ctx context.Context, client *http.Client, site Site, paper *types.PaperRecord, cfg types.ScrapeConfig) error {
	body, _, err := get(ctx, client, paper.Link, cfg)
	if err != nil {
		return err
	}
	defer body.Close()

	authors, abstract, err := site.ParseDetail(body)
	if err != nil {
		return fmt.Errorf("parsing detail page: %w", err)
	}

	paper.Authors = authors
	paper.Abstract = abstract
	return nil
}

// get issues a GET with the configured User-Agent, retrying on HTTP 429.
// It returns the response body and the final request URL for resolving
// relative links.
func get(ctx context.Context, client *http.Client, rawURL string, cfg types.ScrapeConfig) (io.ReadCloser, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("GET %s returned HTTP %d", rawURL, resp.StatusCode)
	}

	return resp.Body, resp.Request.URL, nil
}

// fetchDelay returns the configured base delay plus random jitter.
func fetchDelay(cfg types.ScrapeConfig) time.Duration {
	delay := cfg.FetchDelay
	if cfg.FetchJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(cfg.FetchJitter)))
	}
	return delay
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
