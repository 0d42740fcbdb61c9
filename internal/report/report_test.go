// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

func verdictPtr(v types.Verdict) *types.Verdict { return &v }

func sampleReport() *types.RunReport {
	return &types.RunReport{
		Topic: types.TopicQuery{Description: "test-time adaptation", Venue: "iccv", Year: "2025"},
		Results: []types.ClassificationResult{
			{PaperTitle: "A", PaperAbstract: "x", Verdict: verdictPtr(types.Relevant), RawAnalysis: "Analysis: a\nResult: 1"},
			{PaperTitle: "B", PaperAbstract: "y", Verdict: nil, RawAnalysis: "inconclusive"},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	rep := sampleReport()

	require.NoError(t, Write(path, rep))

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, rep.Topic, loaded.Topic)
	assert.Equal(t, rep.Results, loaded.Results)
}

func TestWriteHeaderIsFirstElement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, Write(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var elements []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &elements))
	require.Len(t, elements, 3)

	assert.Contains(t, elements[0], "topic_desc")
	assert.Contains(t, elements[0], "venue")
	assert.Contains(t, elements[0], "year")
	assert.Contains(t, elements[1], "paper_title")
}

func TestNullVerdictSurvivesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, Write(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// The missing verdict is an explicit JSON null, not an absent key.
	assert.Contains(t, string(data), `"verdict": null`)

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, loaded.Results[1].Verdict)
	require.NotNil(t, loaded.Results[0].Verdict)
	assert.Equal(t, types.Relevant, *loaded.Results[0].Verdict)
}

func TestReadResultsFromFullReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, Write(path, sampleReport()))

	results, err := ReadResults(path)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].PaperTitle)
}

func TestReadResultsFromBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	bare := sampleReport().Results
	data, err := json.Marshal(bare)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	results, err := ReadResults(path)
	require.NoError(t, err)
	assert.Equal(t, bare, results)
}

func TestReadEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	results, err := ReadResults(path)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
