package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/local/pagereorder/internal/orchestrator"
)

var moveCmd = &cobra.Command{
	Use:   "move <input> <output>",
	Short: "Relocate pages after anchor pages",
	Long: `Apply a move list {"<source_page>": <anchor_page>} where both are original
1-based page numbers. Each source page is placed immediately after the
current position of its anchor. Moves run by ascending anchor, then
ascending source.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		moves, _ := cmd.Flags().GetString("moves")
		res, err := current.orch.Move(cmd.Context(), orchestrator.MoveRequest{
			Input:  args[0],
			Output: args[1],
			Moves:  moves,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", len(res.Order), res.Output)
		return nil
	},
}

func init() {
	moveCmd.Flags().String("moves", "", "JSON move list file")
	_ = moveCmd.MarkFlagRequired("moves")
}
