// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title and abstract.
	Query string

	// Verdict filters by verdict value. Nil means any verdict,
	// including none.
	Verdict *types.Verdict

	// Venue filters by conference label.
	Venue string

	// Year filters by conference year label.
	Year string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Verdict == nil && q.Venue == "" && q.Year == ""
}

// QueryResult is an archived classification result with its run context.
type QueryResult struct {
	types.ClassificationResult `yaml:",inline"`
	TopicDesc                  string `json:"topic_desc" yaml:"topic_desc"`
	Venue                      string `json:"venue" yaml:"venue"`
	Year                       string `json:"year" yaml:"year"`
}

// Retrieve queries the archive with optional full-text search and
// structured filters. Full-text queries are ranked by relevance;
// structured-only queries come back in run and input order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.paper_title, r.paper_abstract, r.verdict, r.raw_analysis,
				u.topic_desc, u.venue, u.year
			FROM results_fts
			JOIN results r ON r.rowid = results_fts.rowid
			JOIN runs u ON r.run_id = u.id
			WHERE results_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.paper_title, r.paper_abstract, r.verdict, r.raw_analysis,
				u.topic_desc, u.venue, u.year
			FROM results r
			JOIN runs u ON r.run_id = u.id
			WHERE 1=1`)
	}

	if opts.Verdict != nil {
		qb.WriteString(` AND r.verdict = ?`)
		args = append(args, int(*opts.Verdict))
	}
	if opts.Venue != "" {
		qb.WriteString(` AND u.venue = ?`)
		args = append(args, opts.Venue)
	}
	if opts.Year != "" {
		qb.WriteString(` AND u.year = ?`)
		args = append(args, opts.Year)
	}

	if useFTS {
		qb.WriteString(` ORDER BY results_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.run_id, r.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr      QueryResult
			verdict sql.NullInt64
		)
		if err := rows.Scan(
			&qr.PaperTitle, &qr.PaperAbstract, &verdict, &qr.RawAnalysis,
			&qr.TopicDesc, &qr.Venue, &qr.Year,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if verdict.Valid {
			v := types.Verdict(verdict.Int64)
			qr.Verdict = &v
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}

// FormatTable writes query results as a human-readable table to w.
func FormatTable(results []QueryResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-10s  %-8s  %s\n",
		"Rank", "Title", "Verdict", "Venue", "Year")
	fmt.Fprintln(w, strings.Repeat("-", 95))

	for i, r := range results {
		title := r.PaperTitle
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		verdict := "none"
		if r.Verdict != nil {
			verdict = r.Verdict.String()
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-10s  %-8s  %s\n",
			i+1, title, verdict, r.Venue, r.Year)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes query results as indented JSON to w.
func FormatJSON(results []QueryResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
