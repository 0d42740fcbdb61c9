// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter narrows classification results to an operator-chosen
// set of verdicts and exports the curated subset.
package filter

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// ErrNoOp signals that the operator declined the filter step ("n").
var ErrNoOp = fmt.Errorf("filter declined")

// ParseVerdictSet parses an operator selection like "1", "-1,0" or
// "1, 0, -1" into the accepted-verdict set. The literal "n" (any case)
// is the explicit no-op answer and returns ErrNoOp. An empty selection
// or any value outside {-1, 0, 1} is an error; the caller re-prompts or
// aborts the export.
func ParseVerdictSet(s string) (map[types.Verdict]bool, error) {
	if strings.EqualFold(strings.TrimSpace(s), "n") {
		return nil, ErrNoOp
	}

	cleaned := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if cleaned == "" {
		return nil, fmt.Errorf("empty verdict selection")
	}

	accepted := make(map[types.Verdict]bool)
	for _, part := range strings.Split(cleaned, ",") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid verdict %q: expected -1, 0, or 1", part)
		}
		v := types.Verdict(n)
		if !v.Valid() {
			return nil, fmt.Errorf("invalid verdict %d: expected -1, 0, or 1", n)
		}
		accepted[v] = true
	}
	return accepted, nil
}

// ByVerdict returns the results whose verdict is in the accepted set,
// preserving input order. Results with no verdict are always excluded;
// an unparseable judge reply never matches any selection.
func ByVerdict(results []types.ClassificationResult, accepted map[types.Verdict]bool) []types.ClassificationResult {
	var kept []types.ClassificationResult
	for _, r := range results {
		if r.Matched(accepted) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Export writes the curated subset to path as an indented JSON array.
func Export(path string, results []types.ClassificationResult) error {
	if results == nil {
		results = []types.ClassificationResult{}
	}
	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling filtered results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing filtered results %s: %w", path, err)
	}
	return nil
}
