// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/report"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

func verdictPtr(v types.Verdict) *types.Verdict { return &v }

func sampleReport() *types.RunReport {
	return &types.RunReport{
		Topic: types.TopicQuery{Description: "efficient language models", Venue: "cvpr", Year: "2025"},
		Results: []types.ClassificationResult{
			{PaperTitle: "Pruning Attention Heads at Scale", PaperAbstract: "structured pruning of attention heads", Verdict: verdictPtr(types.Relevant), RawAnalysis: "Result: 1"},
			{PaperTitle: "Diffusion Models for Scene Layouts", PaperAbstract: "3d scene generation", Verdict: verdictPtr(types.Irrelevant), RawAnalysis: "Result: -1"},
			{PaperTitle: "A Paper the Judge Mumbled About", PaperAbstract: "something vague", Verdict: nil, RawAnalysis: "inconclusive"},
		},
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{ArchiveDir: dir, MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func writeReport(t *testing.T, dir string, rep *types.RunReport) string {
	t.Helper()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, report.Write(path, rep))
	return path
}

func TestIndexAndRetrieve(t *testing.T) {
	s, dir := newTestStore(t)
	path := writeReport(t, dir, sampleReport())
	ctx := context.Background()

	skipped, err := s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, skipped)

	// Full-text search over titles.
	results, err := s.Retrieve(ctx, QueryOptions{Query: "pruning"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Pruning Attention Heads at Scale", results[0].PaperTitle)
	assert.Equal(t, "cvpr", results[0].Venue)
	require.NotNil(t, results[0].Verdict)
	assert.Equal(t, types.Relevant, *results[0].Verdict)

	// Full-text search over abstracts.
	results, err = s.Retrieve(ctx, QueryOptions{Query: "scene"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Diffusion Models for Scene Layouts", results[0].PaperTitle)
}

func TestRetrieveVerdictFilter(t *testing.T) {
	s, dir := newTestStore(t)
	path := writeReport(t, dir, sampleReport())
	ctx := context.Background()

	_, err := s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)

	results, err := s.Retrieve(ctx, QueryOptions{Verdict: verdictPtr(types.Relevant)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Pruning Attention Heads at Scale", results[0].PaperTitle)

	// A null verdict matches no verdict filter.
	results, err = s.Retrieve(ctx, QueryOptions{Verdict: verdictPtr(types.Unsure)})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveStructuredFilters(t *testing.T) {
	s, dir := newTestStore(t)
	path := writeReport(t, dir, sampleReport())
	ctx := context.Background()

	_, err := s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)

	results, err := s.Retrieve(ctx, QueryOptions{Venue: "cvpr", Year: "2025"})
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = s.Retrieve(ctx, QueryOptions{Venue: "iccv"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexSkipsUnchangedReport(t *testing.T) {
	s, dir := newTestStore(t)
	path := writeReport(t, dir, sampleReport())
	ctx := context.Background()

	skipped, err := s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, skipped)

	skipped, err = s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, skipped)
}

func TestIndexReplacesChangedReport(t *testing.T) {
	s, dir := newTestStore(t)
	path := writeReport(t, dir, sampleReport())
	ctx := context.Background()

	_, err := s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)

	// Rewrite the report with a single result and bump the mod time.
	rep := sampleReport()
	rep.Results = rep.Results[:1]
	require.NoError(t, report.Write(path, rep))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	skipped, err := s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, skipped)

	results, err := s.Retrieve(ctx, QueryOptions{Venue: "cvpr"})
	require.NoError(t, err)
	assert.Len(t, results, 1, "old results must be replaced, not duplicated")
}

func TestExportYAML(t *testing.T) {
	s, dir := newTestStore(t)
	path := writeReport(t, dir, sampleReport())
	ctx := context.Background()

	_, err := s.Index(ctx, path, &bytes.Buffer{})
	require.NoError(t, err)

	exportPath, err := s.ExportYAML(ctx, QueryOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Pruning Attention Heads at Scale")
	assert.Contains(t, string(data), "topic_desc: efficient language models")
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{}.IsEmpty())
	assert.False(t, QueryOptions{Query: "x"}.IsEmpty())
	assert.False(t, QueryOptions{Verdict: verdictPtr(types.Unsure)}.IsEmpty())
	assert.False(t, QueryOptions{Venue: "cvpr"}.IsEmpty())
	assert.False(t, QueryOptions{Year: "2025"}.IsEmpty())
}
