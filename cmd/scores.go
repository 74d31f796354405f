package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScoresCmd(app *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the best finished runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative, got %d", limit)
			}

			entries, err := app.scores.Top(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rendered, err := app.renderScores(entries)
			if err != nil {
				return fmt.Errorf("render scores: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")

	return cmd
}
