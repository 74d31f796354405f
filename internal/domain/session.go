package domain

import (
	"fmt"
	"time"
)

const (
	DaysPerSession = 3
	TurnsPerDay    = 3
)

type SessionID string

type Speaker string

const (
	SpeakerUser       Speaker = "user"
	SpeakerCharacter  Speaker = "character"
	SpeakerSystemNote Speaker = "system"
)

type Message struct {
	Speaker Speaker
	Text    string
}

func (m Message) IsSystemNote() bool {
	return m.Speaker == SpeakerSystemNote
}

type Session struct {
	ID             SessionID
	Day            int
	Turn           int
	Gold           int64
	GoldAtDayStart int64
	Relationship   int
	Conversation   []Message
	Memories       []DayMemory
	Facts          FactStore
	Phase          Phase
	StartedAt      time.Time
	UpdatedAt      time.Time
}

// NewSession returns a session positioned at the first turn of day 1.
func NewSession(id SessionID, now time.Time) Session {
	return Session{
		ID:        id,
		Day:       1,
		Phase:     PhasePlaying,
		Facts:     FactStore{},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// GoldDelta is the gold earned since the current day began.
func (s Session) GoldDelta() int64 {
	return GoldBetween(s.Gold, s.GoldAtDayStart)
}

func (s Session) IsFinalDay() bool {
	return s.Day >= DaysPerSession
}

// DialogueMessages returns the conversation without system notes.
func (s Session) DialogueMessages() []Message {
	return WithoutSystemNotes(s.Conversation)
}

func WithoutSystemNotes(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, message := range messages {
		if message.IsSystemNote() {
			continue
		}
		out = append(out, message)
	}
	return out
}

// CompleteTurn advances the turn counter and reports whether the day is over.
// The phase is left untouched so the caller can consolidate memory first.
func (s *Session) CompleteTurn() (dayOver bool, err error) {
	if s.Phase != PhasePlaying {
		return false, fmt.Errorf("%w: complete turn in phase %s", ErrInvalidTransition, s.Phase)
	}

	s.Turn++
	return s.Turn >= TurnsPerDay, nil
}

// CloseDay moves a finished day to DayEnded, or to FinalTurn on the last day.
func (s *Session) CloseDay() error {
	if s.Phase != PhasePlaying || s.Turn < TurnsPerDay {
		return fmt.Errorf("%w: close day %d at turn %d in phase %s", ErrInvalidTransition, s.Day, s.Turn, s.Phase)
	}

	event := EventDayClosed
	if s.IsFinalDay() {
		event = EventLastDayClosed
	}

	next, err := NextPhase(s.Phase, event)
	if err != nil {
		return err
	}
	s.Phase = next

	return nil
}

// BeginNextDay starts the following day from DayEnded.
func (s *Session) BeginNextDay() error {
	next, err := NextPhase(s.Phase, EventContinue)
	if err != nil {
		return err
	}

	s.Phase = next
	s.Day++
	s.Turn = 0
	s.Conversation = nil
	s.GoldAtDayStart = s.Gold

	return nil
}

func (s *Session) Finalize() error {
	next, err := NextPhase(s.Phase, EventFinalize)
	if err != nil {
		return err
	}

	s.Phase = next
	return nil
}

func (s *Session) AppendMemory(memory DayMemory) {
	s.Memories = append(s.Memories, memory)
}

// Restart wipes the play-through while keeping the session identity.
func (s *Session) Restart(now time.Time) error {
	if _, err := NextPhase(s.Phase, EventRestart); err != nil {
		return err
	}

	*s = NewSession(s.ID, now)
	return nil
}
