// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report serializes classification run reports. A report file is
// a JSON array whose first element is the topic header and whose
// remaining elements are classification results in input order.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// Write serializes the report to path as indented UTF-8 JSON.
func Write(path string, rep *types.RunReport) error {
	doc := make([]any, 0, len(rep.Results)+1)
	doc = append(doc, rep.Topic)
	for _, r := range rep.Results {
		doc = append(doc, r)
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Read loads a full report written by Write.
func Read(path string) (*types.RunReport, error) {
	elements, err := readElements(path)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("report %s is empty", path)
	}

	var rep types.RunReport
	if err := json.Unmarshal(elements[0], &rep.Topic); err != nil {
		return nil, fmt.Errorf("parsing report header: %w", err)
	}

	rep.Results, err = parseResults(elements[1:])
	if err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &rep, nil
}

// ReadResults loads the classification results from path, which may be
// either a full report (header first) or a bare array of results. The
// filter command accepts both shapes.
func ReadResults(path string) ([]types.ClassificationResult, error) {
	elements, err := readElements(path)
	if err != nil {
		return nil, err
	}
	if len(elements) > 0 && isHeader(elements[0]) {
		elements = elements[1:]
	}

	results, err := parseResults(elements)
	if err != nil {
		return nil, fmt.Errorf("parsing results %s: %w", path, err)
	}
	return results, nil
}

func readElements(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return elements, nil
}

// isHeader reports whether the element looks like a topic header rather
// than a classification result.
func isHeader(element json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(element, &probe); err != nil {
		return false
	}
	_, ok := probe["topic_desc"]
	return ok
}

func parseResults(elements []json.RawMessage) ([]types.ClassificationResult, error) {
	results := make([]types.ClassificationResult, 0, len(elements))
	for i, el := range elements {
		var r types.ClassificationResult
		if err := json.Unmarshal(el, &r); err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
		results = append(results, r)
	}
	return results, nil
}
