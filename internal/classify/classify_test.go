package classify

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/checkpoint"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/filter"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/report"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// --- mock judge ---

// scriptedJudge replies with a fixed sequence of texts, one per call,
// and fails once the script (or failAfter) is exhausted.
type scriptedJudge struct {
	replies   []string
	failAfter int // fail on call n (1-based); 0 means never
	calls     int
}

func (j *scriptedJudge) Classify(_ context.Context, _, _ string) (string, error) {
	j.calls++
	if j.failAfter > 0 && j.calls >= j.failAfter {
		return "", fmt.Errorf("judge unavailable")
	}
	if j.calls > len(j.replies) {
		return "", fmt.Errorf("no scripted reply for call %d", j.calls)
	}
	return j.replies[j.calls-1], nil
}

func testTopic() types.TopicQuery {
	return types.TopicQuery{Description: "efficient language models", Venue: "cvpr", Year: "2025"}
}

func testPapers() []types.PaperRecord {
	return []types.PaperRecord{
		{Title: "A", Abstract: "x"},
		{Title: "B", Abstract: "y"},
	}
}

func openLog(t *testing.T) *checkpoint.Log {
	t.Helper()
	log, err := checkpoint.Open(filepath.Join(t.TempDir(), "run.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func TestRunPreservesInputOrder(t *testing.T) {
	judge := &scriptedJudge{replies: []string{
		"Analysis: on topic.\nResult: 1",
		"Analysis: different field.\nResult: -1",
	}}
	log := openLog(t)
	defer log.Close()

	rep, err := Run(context.Background(), testTopic(), testPapers(), judge, log, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(rep.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(rep.Results))
	}
	if rep.Results[0].PaperTitle != "A" || rep.Results[1].PaperTitle != "B" {
		t.Errorf("results out of input order: %q, %q", rep.Results[0].PaperTitle, rep.Results[1].PaperTitle)
	}
	if got := rep.Results[0].Verdict; got == nil || *got != types.Relevant {
		t.Errorf("verdict A = %v, want 1", got)
	}
	if got := rep.Results[1].Verdict; got == nil || *got != types.Irrelevant {
		t.Errorf("verdict B = %v, want -1", got)
	}
}

func TestRunContinuesOnUnparseableReply(t *testing.T) {
	judge := &scriptedJudge{replies: []string{
		"I cannot say.",
		"Analysis: fits.\nResult: 1",
	}}
	log := openLog(t)
	defer log.Close()

	rep, err := Run(context.Background(), testTopic(), testPapers(), judge, log, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if rep.Results[0].Verdict != nil {
		t.Errorf("verdict A = %v, want nil", rep.Results[0].Verdict)
	}
	if rep.Results[0].RawAnalysis != "I cannot say." {
		t.Errorf("raw analysis not preserved: %q", rep.Results[0].RawAnalysis)
	}
	if rep.Results[1].Verdict == nil {
		t.Error("verdict B = nil, want 1")
	}
}

func TestRunHaltsOnJudgeFailure(t *testing.T) {
	judge := &scriptedJudge{
		replies:   []string{"Analysis: fits.\nResult: 1"},
		failAfter: 2,
	}
	log := openLog(t)
	logPath := log.Path()

	rep, err := Run(context.Background(), testTopic(), testPapers(), judge, log, &bytes.Buffer{})
	if err == nil {
		t.Fatal("Run() should fail when the judge fails")
	}
	log.Close()

	// The in-memory accumulator keeps the last-known-good results.
	if len(rep.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(rep.Results))
	}

	// The checkpoint log holds exactly the flushed result.
	lines := logLines(t, logPath)
	if len(lines) != 1 {
		t.Fatalf("checkpoint lines = %d, want 1", len(lines))
	}
	var logged types.ClassificationResult
	if err := json.Unmarshal([]byte(lines[0]), &logged); err != nil {
		t.Fatalf("checkpoint line not parseable: %v", err)
	}
	if logged.PaperTitle != "A" {
		t.Errorf("logged title = %q, want A", logged.PaperTitle)
	}
}

func TestFinalizeWritesReportAndRemovesLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.jsonl")
	outPath := filepath.Join(dir, "out.json")

	log, err := checkpoint.Open(logPath)
	if err != nil {
		t.Fatal(err)
	}

	judge := &scriptedJudge{replies: []string{
		"Analysis: a.\nResult: 1",
		"Analysis: b.\nResult: -1",
	}}
	rep, err := Run(context.Background(), testTopic(), testPapers(), judge, log, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	if err := Finalize(rep, outPath, log, &bytes.Buffer{}); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("checkpoint log should be removed after a successful report write")
	}

	loaded, err := report.Read(outPath)
	if err != nil {
		t.Fatalf("reading final report: %v", err)
	}
	if loaded.Topic != testTopic() {
		t.Errorf("report header = %+v, want %+v", loaded.Topic, testTopic())
	}
	if len(loaded.Results) != 2 {
		t.Errorf("report results = %d, want 2", len(loaded.Results))
	}
}

func TestFinalizeKeepsLogOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.jsonl")

	log, err := checkpoint.Open(logPath)
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()
	if err := log.Append(types.ClassificationResult{PaperTitle: "A"}); err != nil {
		t.Fatal(err)
	}

	rep := &types.RunReport{Topic: testTopic()}

	// Report path inside a missing directory forces a write failure.
	badPath := filepath.Join(dir, "missing", "out.json")
	if err := Finalize(rep, badPath, log, &bytes.Buffer{}); err == nil {
		t.Fatal("Finalize() should fail when the report cannot be written")
	}

	if _, err := os.Stat(logPath); err != nil {
		t.Error("checkpoint log must survive a failed report write")
	}
}

func TestRunThenFilterEndToEnd(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.jsonl")
	outPath := filepath.Join(dir, "out.json")

	log, err := checkpoint.Open(logPath)
	if err != nil {
		t.Fatal(err)
	}

	judge := &scriptedJudge{replies: []string{
		"Analysis: on topic.\nResult: 1",
		"Analysis: unrelated.\nResult: -1",
	}}
	rep, err := Run(context.Background(), testTopic(), testPapers(), judge, log, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Finalize(rep, outPath, log, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	results, err := report.ReadResults(outPath)
	if err != nil {
		t.Fatal(err)
	}

	curated := filter.ByVerdict(results, map[types.Verdict]bool{types.Relevant: true})
	if len(curated) != 1 || curated[0].PaperTitle != "A" {
		t.Errorf("curated = %+v, want only paper A", curated)
	}
}

func logLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return lines
}
