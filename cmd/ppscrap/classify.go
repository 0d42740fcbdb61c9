package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/checkpoint"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/classify"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/filter"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/secrets"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

const defaultJudgeTimeout = 120 * time.Second

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify scraped papers against a topic with a language-model judge",
	Long: `Classify reads a scraped paper list, asks the judge model for each
paper's relevance to the topic, and writes a report with one verdict
per paper. Every result is checkpointed to a JSONL log before the next
paper is processed; the log is deleted only once the final report is
safely on disk, so an interrupted run can be resumed manually from the
log remainder.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringP("conf", "c", "", "conference label recorded in the report header")
	classifyCmd.Flags().StringP("year", "y", "2025", "conference year recorded in the report header")
	classifyCmd.Flags().StringP("topic", "t", "", "topic description (field/subfield keywords or a line of comment)")
	classifyCmd.Flags().StringP("input", "i", "", "paper list exported by the scrape command")
	classifyCmd.Flags().StringP("output", "o", "", "output file for the classification report")
	classifyCmd.Flags().StringP("model", "m", "", "judge model identifier (default per provider)")
	classifyCmd.Flags().String("provider", "deepseek", "judge provider: deepseek, openai, or anthropic")
	classifyCmd.Flags().StringP("apikey", "k", "", "judge API key (default: .secrets/<provider>-api-key or PPSCRAP_APIKEY)")
	classifyCmd.Flags().String("keep", "", "after the run, export only these verdicts, e.g. \"1\" or \"0,1\"")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	conf, _ := cmd.Flags().GetString("conf")
	year, _ := cmd.Flags().GetString("year")
	topicDesc, _ := cmd.Flags().GetString("topic")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	model, _ := cmd.Flags().GetString("model")
	provider, _ := cmd.Flags().GetString("provider")
	apikey, _ := cmd.Flags().GetString("apikey")
	keep, _ := cmd.Flags().GetString("keep")

	if conf == "" {
		return fmt.Errorf("provide a conference label with --conf")
	}
	if input == "" {
		return fmt.Errorf("provide a paper list with --input")
	}
	if topicDesc == "" {
		return fmt.Errorf("provide a topic description with --topic")
	}

	// Validate the verdict selection before spending judge calls.
	var accepted map[types.Verdict]bool
	if keep != "" {
		var err error
		accepted, err = filter.ParseVerdictSet(keep)
		if err != nil && err != filter.ErrNoOp {
			return fmt.Errorf("--keep: %w", err)
		}
	}

	judgeCfg := types.JudgeConfig{
		Provider: types.JudgeProvider(provider),
		Model:    model,
		APIKey:   secretDefault(secrets.KeyFor(provider), apikey),
		Timeout:  defaultJudgeTimeout,
	}
	judge, err := classify.NewJudge(judgeCfg)
	if err != nil {
		return err
	}

	papers, err := readPaperList(input)
	if err != nil {
		return err
	}
	fmt.Printf("successfully read %d entries from %s\n", len(papers), input)

	stamp := runStamp()
	if output == "" {
		output = fmt.Sprintf("detailed_filtered_papers_%s_%s_%s.json", conf, year, stamp)
	}

	log, err := checkpoint.Open(output + "l")
	if err != nil {
		return err
	}

	topic := types.TopicQuery{Description: topicDesc, Venue: conf, Year: year}

	rep, err := classify.Run(context.Background(), topic, papers, judge, log, os.Stdout)
	if err != nil {
		log.Close()
		return fmt.Errorf("run aborted (checkpoint %s kept for resumption): %w", log.Path(), err)
	}

	if err := classify.Finalize(rep, output, log, os.Stdout); err != nil {
		log.Close()
		return err
	}

	if accepted != nil {
		curatedPath := fmt.Sprintf("papers_to_read_%s_%s_%s.json", conf, year, stamp)
		curated := filter.ByVerdict(rep.Results, accepted)
		if err := filter.Export(curatedPath, curated); err != nil {
			return err
		}
		fmt.Printf("results with approved verdicts saved to %s (%d papers)\n", curatedPath, len(curated))
	}

	return nil
}
