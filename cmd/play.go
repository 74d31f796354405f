package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	sessionrender "github.com/bnema/dragon-hoard/internal/adapters/render/session"
	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/spf13/cobra"
)

const quitCommand = "/quit"

func newPlayCmd(app *app) *cobra.Command {
	var sessionID string
	var fresh bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Talk to the dragon (resumes the latest unfinished session)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessionID != "" && fresh {
				return errors.New("--session and --new are mutually exclusive")
			}
			if _, err := app.credentials.APIKey(cmd.Context()); err != nil {
				return err
			}

			opts, err := playSessionOptions(cmd.Context(), app, sessionID, fresh)
			if err != nil {
				return err
			}

			engine, err := app.newEngine(opts...)
			if err != nil {
				return err
			}

			return playLoop(cmd, app, engine)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Resume this session ID")
	cmd.Flags().BoolVar(&fresh, "new", false, "Start a new session")

	return cmd
}

// playSessionOptions picks the session to play: the requested one, else the
// latest unfinished one, else a new one.
func playSessionOptions(ctx context.Context, app *app, sessionID string, fresh bool) ([]application.EngineOption, error) {
	if fresh {
		return nil, nil
	}

	session, err := loadSession(ctx, app, sessionID)
	switch {
	case errors.Is(err, errNoSavedSession):
		return nil, nil
	case err != nil:
		return nil, err
	case sessionID == "" && session.Phase == domain.PhaseGameOver:
		return nil, nil
	}

	return []application.EngineOption{application.WithSession(session)}, nil
}

func playLoop(cmd *cobra.Command, app *app, engine *application.Engine) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	if err := writeSessionOutput(cmd, app, engine.View(), false); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nType to speak, %s to leave. Progress is saved.\n", quitCommand)

	for {
		view := engine.View()

		switch view.Phase {
		case domain.PhasePlaying:
			fmt.Fprintf(out, "\n[day %d · turn %d/%d] > ", view.Day, view.Turn+1, domain.TurnsPerDay)
			line, ok := readLine(in)
			if !ok {
				return leave(out, in, view.ID)
			}

			var outcome application.TurnOutcome
			err := runThinkingSpinner(ctx, cmd.ErrOrStderr(), "The dragon is thinking...", func(ctx context.Context) error {
				var err error
				outcome, err = engine.SubmitUtterance(ctx, line)
				return err
			})
			if errors.Is(err, application.ErrGeneration) {
				fmt.Fprintf(out, "The dragon did not answer (%v). Try again.\n", err)
				continue
			}
			if err != nil {
				return err
			}
			if outcome.Ignored {
				continue
			}
			writeTurn(out, outcome, engine.View())

		case domain.PhaseDayEnded:
			fmt.Fprintf(out, "\nDay %d is over. Press enter to start day %d.\n", view.Day, view.Day+1)
			if _, ok := readLine(in); !ok {
				return leave(out, in, view.ID)
			}
			if err := engine.AdvanceToNextDay(ctx); err != nil {
				return err
			}

		case domain.PhaseFinalTurn:
			fmt.Fprintln(out, "\nThe last exchange is done. Press enter to learn your fate.")
			if _, ok := readLine(in); !ok {
				return leave(out, in, view.ID)
			}
			if err := engine.FinalizeSession(ctx); err != nil {
				return err
			}

		case domain.PhaseGameOver:
			rendered, err := app.renderSession(view, sessionrender.RenderOptions{})
			if err != nil {
				return fmt.Errorf("render session: %w", err)
			}
			_, err = fmt.Fprintln(out, "\n"+rendered)
			return err

		default:
			return fmt.Errorf("session %s is in unknown phase %q", view.ID, view.Phase)
		}
	}
}

func writeTurn(out io.Writer, outcome application.TurnOutcome, view application.SessionView) {
	fmt.Fprintln(out, sessionrender.RenderMessage(domain.Message{Speaker: domain.SpeakerCharacter, Text: outcome.Reply.Message}))
	if outcome.Reply.GoldDelta != 0 {
		fmt.Fprintln(out, sessionrender.RenderMessage(domain.GoldNote(outcome.Reply.GoldDelta, view.Gold)))
	}
	if outcome.DayOver && len(view.MemoryDigests) > 0 {
		fmt.Fprintln(out, view.MemoryDigests[len(view.MemoryDigests)-1])
	}
}

// readLine returns false at end of input or when the player quits.
func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}

	line := in.Text()
	if strings.TrimSpace(line) == quitCommand {
		return "", false
	}
	return line, true
}

func leave(out io.Writer, in *bufio.Scanner, id domain.SessionID) error {
	if err := in.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	_, err := fmt.Fprintf(out, "\nSession %s saved. Resume with `hoard play --session %s`.\n", id, id)
	return err
}
