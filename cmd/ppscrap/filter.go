package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/filter"
	"github.com/jadmax0w0/conference-paper-scrapper/internal/report"
)

var filterCmd = &cobra.Command{
	Use:   "filter [report.json]",
	Short: "Re-filter a finished classification report by verdict",
	Long: `Filter reads a previously produced classification report (or a bare
array of classification results) and exports only the entries whose
verdict is in the accepted set. Entries with no extractable verdict are
always excluded. The verdict selection "n" skips the export entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("keep", "", "accepted verdicts, e.g. \"1\" or \"-1,0\" (required)")
	filterCmd.Flags().StringP("output", "o", "", "output file for the curated subset")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetString("keep")
	output, _ := cmd.Flags().GetString("output")

	if keep == "" {
		return fmt.Errorf("provide the accepted verdict set with --keep (e.g. --keep \"0,1\")")
	}

	accepted, err := filter.ParseVerdictSet(keep)
	if err == filter.ErrNoOp {
		fmt.Println("filter declined, nothing written")
		return nil
	}
	if err != nil {
		return fmt.Errorf("--keep: %w", err)
	}

	results, err := report.ReadResults(args[0])
	if err != nil {
		return err
	}

	if output == "" {
		output = fmt.Sprintf("papers_to_read_%s.json", runStamp())
	}

	curated := filter.ByVerdict(results, accepted)
	if err := filter.Export(output, curated); err != nil {
		return err
	}

	fmt.Printf("results with approved verdicts saved to %s (%d of %d papers)\n", output, len(curated), len(results))
	return nil
}
