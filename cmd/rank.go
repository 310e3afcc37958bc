package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the catalog against the active thresholds",
	Long: `Loads the catalog once, scores every water against the active thresholds
and prints the best pick, the top picks, the full ranking and aggregate
statistics. This is also what running aquarank without a subcommand does.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRank(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command) error {
	s, err := newSession(commandContext(cmd))
	if err != nil {
		return err
	}
	return s.render(cmd.OutOrStdout())
}
