// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify turns scraped paper records into topic-relevance
// verdicts via prompted judge calls, with a crash-resumable checkpoint
// log and a final aggregate report.
package classify

import (
	"context"
	"fmt"
	"io"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/checkpoint"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/report"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// Run classifies every paper against the topic, strictly in input order.
// Each paper is fully processed before the next begins: prompt built,
// judge called, reply parsed, result appended to both the in-memory
// report and the checkpoint log (flushed to disk).
//
// A reply with no extractable verdict is recorded with a nil verdict and
// the run continues. A failed judge call or checkpoint write is fatal:
// the error is returned together with the report accumulated so far, and
// everything already flushed to the log survives for manual resumption.
func Run(ctx context.Context, topic types.TopicQuery, papers []types.PaperRecord, judge JudgeClient, log *checkpoint.Log, w io.Writer) (*types.RunReport, error) {
	rep := &types.RunReport{Topic: topic}

	for i, paper := range papers {
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		default:
		}

		fmt.Fprintf(w, "checking paper %d/%d: %s\n", i+1, len(papers), paper.Title)

		system, user := BuildPrompt(topic, paper)

		reply, err := judge.Classify(ctx, system, user)
		if err != nil {
			return rep, fmt.Errorf("classifying %q: %w", paper.Title, err)
		}

		result := types.ClassificationResult{
			PaperTitle:    paper.Title,
			PaperAbstract: paper.Abstract,
			Verdict:       ExtractVerdict(reply),
			RawAnalysis:   reply,
		}
		if result.Verdict == nil {
			fmt.Fprintf(w, "  warning: no verdict found in reply\n")
		}

		rep.Results = append(rep.Results, result)

		if err := log.Append(result); err != nil {
			return rep, fmt.Errorf("checkpointing %q: %w", paper.Title, err)
		}
	}

	return rep, nil
}

// Finalize writes the full report to outPath and removes the checkpoint
// log, whose contents the report now subsumes. If the report write fails
// the log is left in place so no result is lost.
func Finalize(rep *types.RunReport, outPath string, log *checkpoint.Log, w io.Writer) error {
	if err := report.Write(outPath, rep); err != nil {
		return fmt.Errorf("writing final report: %w", err)
	}
	if err := log.Remove(); err != nil {
		return fmt.Errorf("removing checkpoint log: %w", err)
	}
	fmt.Fprintf(w, "final result saved to %s\n", outPath)
	return nil
}
