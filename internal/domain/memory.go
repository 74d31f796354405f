package domain

import (
	"fmt"
	"strings"
)

type MemoryMode string

const (
	MemoryModeSummary    MemoryMode = "summary"
	MemoryModeTranscript MemoryMode = "transcript"
)

func ParseMemoryMode(raw string) (MemoryMode, error) {
	mode := MemoryMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case MemoryModeSummary, MemoryModeTranscript:
		return mode, nil
	case "":
		return MemoryModeTranscript, nil
	default:
		return "", fmt.Errorf("unsupported memory mode %q", raw)
	}
}

// DayMemory is the consolidated record of a finished day. Summary memories
// carry CondensedText, transcript memories carry Messages. ExchangeCount is
// fixed at consolidation; condensed text is never re-parsed.
type DayMemory struct {
	Day           int
	Mode          MemoryMode
	CondensedText string
	Messages      []Message
	ExchangeCount int
	GoldEarned    int64
}

// Exchanges counts traveler utterances recorded for the day.
func (m DayMemory) Exchanges() int {
	if m.Mode == MemoryModeSummary {
		return m.ExchangeCount
	}
	return CountUserMessages(m.Messages)
}

func CountUserMessages(messages []Message) int {
	count := 0
	for _, message := range messages {
		if message.Speaker == SpeakerUser {
			count++
		}
	}
	return count
}

// Digest is the one-line recap shown next to the conversation.
func (m DayMemory) Digest() string {
	return fmt.Sprintf("Day %d: %d exchanges, earned %s gold", m.Day, m.Exchanges(), SignedAmount(m.GoldEarned))
}

const (
	UserLabel        = "Traveler"
	CharacterLabel   = "Dragon"
	SummarySeparator = " | "
)

func SpeakerLabel(speaker Speaker) string {
	switch speaker {
	case SpeakerUser:
		return UserLabel
	case SpeakerCharacter:
		return CharacterLabel
	default:
		return "Note"
	}
}

// FormatLine renders a message as "Traveler: text".
func FormatLine(message Message) string {
	return SpeakerLabel(message.Speaker) + ": " + message.Text
}
