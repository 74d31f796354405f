package session

import (
	"fmt"
	"strings"

	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// ShowConversation includes today's messages; the play loop prints them
	// as they arrive and turns this off.
	ShowConversation bool
}

const relationshipBarWidth = 20

func Render(view application.SessionView, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderView(view, opts, s)
	})
}

func RenderScores(entries []ports.ScoreEntry) (string, error) {
	return run(func(s styles) string {
		return renderScores(entries, s)
	})
}

func turnLabel(view application.SessionView) string {
	if view.Consolidating {
		return "remembering the day..."
	}
	return fmt.Sprintf("turn %d/%d", min(view.Turn, domain.TurnsPerDay), domain.TurnsPerDay)
}

// RenderMessage formats a single conversation line.
func RenderMessage(message domain.Message) string {
	return renderMessage(message, newStyles())
}

func renderView(view application.SessionView, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Dragon's Hoard"),
		s.header.Render(fmt.Sprintf("session %s · day %d/%d · %s · %s",
			view.ID, view.Day, domain.DaysPerSession, turnLabel(view), view.Phase.Label())),
		goldLine(view, s),
	}
	if view.TrackRelationship {
		lines = append(lines, relationshipLine(view.Relationship, s))
	}

	if len(view.MemoryDigests) > 0 {
		section := []string{s.label.Render("Past days")}
		for _, digest := range view.MemoryDigests {
			section = append(section, s.detail.Render("  "+digest))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, section...)))
	}

	if keys := view.Facts.Keys(); len(keys) > 0 {
		section := []string{s.label.Render("What the dragon knows")}
		for _, key := range keys {
			section = append(section, s.detail.Render(fmt.Sprintf("  %s: %s", key, view.Facts[key].String())))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, section...)))
	}

	if opts.ShowConversation {
		section := []string{s.label.Render("Today")}
		if len(view.Conversation) == 0 {
			section = append(section, s.empty.Render("  The dragon awaits your words..."))
		}
		for _, message := range view.Conversation {
			section = append(section, "  "+renderMessage(message, s))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, section...)))
	}

	if view.Phase == domain.PhaseGameOver {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.ending.Render(fmt.Sprintf("Final gold: %d", view.Gold)),
			s.detail.Render(view.GoldEnding),
			s.detail.Render(endingRelationship(view)),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func endingRelationship(view application.SessionView) string {
	if !view.TrackRelationship {
		return ""
	}
	return view.Mood + " " + view.RelationshipEnding
}

func goldLine(view application.SessionView, s styles) string {
	today := s.detail.Render("±0 today")
	switch {
	case view.GoldToday > 0:
		today = s.gain.Render(domain.SignedAmount(view.GoldToday) + " today")
	case view.GoldToday < 0:
		today = s.loss.Render(domain.SignedAmount(view.GoldToday) + " today")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.label.Render("gold:"), " ",
		s.detail.Render(fmt.Sprintf("%d", view.Gold)), " ",
		today,
	)
}

func relationshipLine(level int, s styles) string {
	band := domain.ClassifyRelationship(level)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.label.Render("opinion:"), " ",
		renderRelationshipBar(level, relationshipBarWidth, s), " ",
		s.detail.Render(fmt.Sprintf("%+d/%d %s %s", level, domain.MaxRelationship, band.Mood(), band)),
	)
}

// renderRelationshipBar fills from the left in proportion to how far the
// level sits between the minimum and maximum opinion.
func renderRelationshipBar(level, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	span := domain.MaxRelationship - domain.MinRelationship
	filled := (domain.ApplyRelationshipDelta(level, 0) - domain.MinRelationship) * width / span
	fill := lipgloss.NewStyle().Foreground(relationshipColor(level))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func relationshipColor(level int) lipgloss.Color {
	switch domain.ClassifyRelationship(level) {
	case domain.RelationshipFriend:
		return lipgloss.Color("114")
	case domain.RelationshipPositive:
		return lipgloss.Color("150")
	case domain.RelationshipWary:
		return lipgloss.Color("215")
	case domain.RelationshipHostile:
		return lipgloss.Color("203")
	default:
		return lipgloss.Color("250")
	}
}

func renderMessage(message domain.Message, s styles) string {
	switch message.Speaker {
	case domain.SpeakerUser:
		return s.traveler.Render("You: ") + message.Text
	case domain.SpeakerCharacter:
		return s.character.Render(domain.CharacterLabel+": ") + message.Text
	default:
		return s.note.Render(message.Text)
	}
}

func renderScores(entries []ports.ScoreEntry, s styles) string {
	lines := []string{
		s.title.Render("Hoard leaderboard"),
		s.header.Render(fmt.Sprintf("runs: %d", len(entries))),
	}
	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("No finished runs yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, entry := range entries {
		goldStyle := s.gain
		if entry.Gold < 0 {
			goldStyle = s.loss
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.label.Render(fmt.Sprintf("%2d.", i+1)), " ",
			goldStyle.Render(fmt.Sprintf("%7d gold", entry.Gold)), " ",
			s.detail.Render(fmt.Sprintf("%-9s opinion %+3d", entry.GoldBand, entry.Relationship)), " ",
			s.header.Render(fmt.Sprintf("%s %s", entry.FinishedAt.Format("2006-01-02 15:04"), entry.SessionID)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
