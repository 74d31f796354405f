package ports

import (
	"context"
	"time"

	"github.com/bnema/dragon-hoard/internal/domain"
)

// ScoreEntry is the record kept for a finalized play-through.
type ScoreEntry struct {
	SessionID    domain.SessionID
	Gold         int64
	Relationship int
	GoldBand     domain.GoldBand
	FinishedAt   time.Time
}

type ScoreBoard interface {
	Record(ctx context.Context, entry ScoreEntry) error
	Top(ctx context.Context, limit int) ([]ScoreEntry, error)
}
