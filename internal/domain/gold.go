package domain

import (
	"fmt"
	"math"
)

type GoldBand string

const (
	GoldInDebt   GoldBand = "in_debt"
	GoldNothing  GoldBand = "nothing"
	GoldModest   GoldBand = "modest"
	GoldGenerous GoldBand = "generous"
	GoldShowered GoldBand = "showered"
)

// GoldThresholds splits positive hauls into bands. A haul below ModestBelow is
// modest, below GenerousBelow generous, anything else showered.
type GoldThresholds struct {
	ModestBelow   int64
	GenerousBelow int64
}

func DefaultGoldThresholds() GoldThresholds {
	return GoldThresholds{ModestBelow: 2000, GenerousBelow: 5000}
}

func (t GoldThresholds) Classify(gold int64) GoldBand {
	switch {
	case gold < 0:
		return GoldInDebt
	case gold == 0:
		return GoldNothing
	case gold < t.ModestBelow:
		return GoldModest
	case gold < t.GenerousBelow:
		return GoldGenerous
	default:
		return GoldShowered
	}
}

func (b GoldBand) Ending() string {
	switch b {
	case GoldInDebt:
		return "You owe the dragon gold! You should run..."
	case GoldNothing:
		return "The dragon gave you nothing..."
	case GoldModest:
		return "A modest haul from the dragon's hoard."
	case GoldGenerous:
		return "The dragon was quite generous!"
	default:
		return "The dragon showered you with riches!"
	}
}

func SignedAmount(v int64) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

// GoldNote is the transient notification appended after a gold change.
func GoldNote(delta, total int64) Message {
	return Message{
		Speaker: SpeakerSystemNote,
		Text:    fmt.Sprintf("💰 %s gold coins (Total: %d)", SignedAmount(delta), total),
	}
}

// AddGold applies delta to total, saturating at the int64 bounds so a huge
// hoard never wraps into debt.
func AddGold(total, delta int64) int64 {
	sum := total + delta
	switch {
	case delta > 0 && sum < total:
		return math.MaxInt64
	case delta < 0 && sum > total:
		return math.MinInt64
	default:
		return sum
	}
}

// GoldBetween is now - then, saturating like AddGold.
func GoldBetween(now, then int64) int64 {
	diff := now - then
	switch {
	case then < 0 && diff < now:
		return math.MaxInt64
	case then > 0 && diff > now:
		return math.MinInt64
	default:
		return diff
	}
}
