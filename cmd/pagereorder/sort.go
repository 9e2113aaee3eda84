package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/local/pagereorder/internal/orchestrator"
)

var sortCmd = &cobra.Command{
	Use:   "sort <input> <output>",
	Short: "Write the pages of a PDF in chapter-page order",
	Long: `Classify every page by the last "<chapter>-<page>" label in its text,
retry unlabelled pages with OCR of the footer, apply manual overrides and
write the document ordered by chapter, then page. Supplement pages ("S")
follow numbered chapters and unlabelled pages keep their relative order at
the end. Inputs and outputs may be local paths or s3:// references; inputs
may also be http(s) URLs.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, _ := cmd.Flags().GetString("overrides")
		report, _ := cmd.Flags().GetString("report")
		res, err := current.orch.Sort(cmd.Context(), orchestrator.SortRequest{
			ClassifyRequest: orchestrator.ClassifyRequest{
				Input:     args[0],
				Overrides: overrides,
				OCR:       ocrSettings(cmd, current),
			},
			Output: args[1],
			Report: report,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", len(res.Order), res.Output)
		return nil
	},
}

func init() {
	addOCRFlags(sortCmd)
	sortCmd.Flags().String("report", "", "Write the per-page classification report to this file")
}
