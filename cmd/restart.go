package cmd

import (
	"fmt"

	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/spf13/cobra"
)

func newRestartCmd(app *app) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Wipe a session's progress and start it over from day 1",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := loadSession(cmd.Context(), app, sessionID)
			if err != nil {
				return err
			}

			engine, err := app.newEngine(application.WithSession(session))
			if err != nil {
				return err
			}
			if err := engine.RestartSession(cmd.Context()); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Session %s restarted at day 1.\n", session.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}
