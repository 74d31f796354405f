package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sessionrender "github.com/bnema/dragon-hoard/internal/adapters/render/session"
	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var sessionID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a saved session (defaults to the latest)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := loadSession(cmd.Context(), app, sessionID)
			if err != nil {
				return err
			}

			view := application.NewSessionView(session, app.engineConfig.GoldThresholds, app.engineConfig.TrackRelationship)
			return writeSessionOutput(cmd, app, view, asJSON)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func writeSessionOutput(cmd *cobra.Command, app *app, view application.SessionView, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	rendered, err := app.renderSession(view, sessionrender.RenderOptions{ShowConversation: true})
	if err != nil {
		return fmt.Errorf("render session: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// loadSession returns the session with the given id, or the most recently
// played one when id is empty.
func loadSession(ctx context.Context, app *app, id string) (domain.Session, error) {
	var (
		session domain.Session
		err     error
	)
	if id == "" {
		session, err = app.sessions.Latest(ctx)
	} else {
		session, err = app.sessions.GetByID(ctx, domain.SessionID(id))
	}

	if errors.Is(err, domain.ErrSessionNotFound) {
		if id == "" {
			return domain.Session{}, errNoSavedSession
		}
		return domain.Session{}, fmt.Errorf("session %s: %w", id, err)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	return session, nil
}
