package main

import (
	"github.com/spf13/cobra"

	"github.com/local/pagereorder/internal/orchestrator"
	"github.com/local/pagereorder/internal/reorder"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <input>",
	Short: "Print the label found for each page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, _ := cmd.Flags().GetString("overrides")
		res, err := current.orch.Classify(cmd.Context(), orchestrator.ClassifyRequest{
			Input:     args[0],
			Overrides: overrides,
			OCR:       ocrSettings(cmd, current),
		})
		if err != nil {
			return err
		}
		return reorder.WriteReport(cmd.OutOrStdout(), res.Pages)
	},
}

func init() {
	addOCRFlags(classifyCmd)
}
