package application

import (
	"slices"
	"time"

	"github.com/bnema/dragon-hoard/internal/domain"
)

// SessionView is a read-only snapshot of a session for presentation.
type SessionView struct {
	ID                 domain.SessionID
	Day                int
	Turn               int
	Gold               int64
	GoldToday          int64
	Relationship       int
	Phase              domain.Phase
	Conversation       []domain.Message
	Memories           []domain.DayMemory
	MemoryDigests      []string
	Facts              domain.FactStore
	GoldBand           domain.GoldBand
	GoldEnding         string
	RelationshipBand   domain.RelationshipBand
	RelationshipEnding string
	Mood               string
	TrackRelationship  bool
	Consolidating      bool
	UpdatedAt          time.Time
}

func NewSessionView(session domain.Session, thresholds domain.GoldThresholds, trackRelationship bool) SessionView {
	goldBand := thresholds.Classify(session.Gold)
	relationshipBand := domain.ClassifyRelationship(session.Relationship)

	digests := make([]string, 0, len(session.Memories))
	for _, memory := range session.Memories {
		digests = append(digests, memory.Digest())
	}

	return SessionView{
		ID:                 session.ID,
		Day:                session.Day,
		Turn:               session.Turn,
		Gold:               session.Gold,
		GoldToday:          session.GoldDelta(),
		Relationship:       session.Relationship,
		Phase:              session.Phase,
		Conversation:       slices.Clone(session.Conversation),
		Memories:           slices.Clone(session.Memories),
		MemoryDigests:      digests,
		Facts:              session.Facts.Clone(),
		GoldBand:           goldBand,
		GoldEnding:         goldBand.Ending(),
		RelationshipBand:   relationshipBand,
		RelationshipEnding: relationshipBand.Ending(),
		Mood:               relationshipBand.Mood(),
		TrackRelationship:  trackRelationship,
		UpdatedAt:          session.UpdatedAt,
	}
}
