package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int
var historyKeep int

// historyCmd lists recent picks from the local database.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently picked values",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openHistory()
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}

		picks, err := repo.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(picks) == 0 {
			fmt.Println("No picks recorded yet.")
			return nil
		}
		for _, p := range picks {
			fmt.Printf("%s  %-7s %s\n", p.PickedAt.Format("2006-01-02 15:04"), p.Mode, p.Value)
		}
		return nil
	},
}

// historyPruneCmd trims the history to the newest entries.
var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest picks",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openHistory()
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		if err := repo.Prune(historyKeep); err != nil {
			return err
		}
		fmt.Printf("Kept the newest %d picks.\n", historyKeep)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 50, "entries to keep")
	historyCmd.AddCommand(historyPruneCmd)
}
