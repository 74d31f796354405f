package domain

import "fmt"

type Phase string

const (
	PhasePlaying   Phase = "playing"
	PhaseDayEnded  Phase = "day_ended"
	PhaseFinalTurn Phase = "final_turn"
	PhaseGameOver  Phase = "game_over"
)

func (p Phase) Valid() bool {
	switch p {
	case PhasePlaying, PhaseDayEnded, PhaseFinalTurn, PhaseGameOver:
		return true
	default:
		return false
	}
}

func (p Phase) Label() string {
	switch p {
	case PhasePlaying:
		return "Playing"
	case PhaseDayEnded:
		return "Day ended"
	case PhaseFinalTurn:
		return "Final turn"
	case PhaseGameOver:
		return "Game over"
	default:
		return string(p)
	}
}

type PhaseEvent string

const (
	EventDayClosed     PhaseEvent = "day_closed"
	EventLastDayClosed PhaseEvent = "last_day_closed"
	EventContinue      PhaseEvent = "continue"
	EventFinalize      PhaseEvent = "finalize"
	EventRestart       PhaseEvent = "restart"
)

// NextPhase is the single transition table of a play-through. Restart is
// accepted from every phase and always lands in Playing.
func NextPhase(current Phase, event PhaseEvent) (Phase, error) {
	if event == EventRestart {
		return PhasePlaying, nil
	}

	switch {
	case current == PhasePlaying && event == EventDayClosed:
		return PhaseDayEnded, nil
	case current == PhasePlaying && event == EventLastDayClosed:
		return PhaseFinalTurn, nil
	case current == PhaseDayEnded && event == EventContinue:
		return PhasePlaying, nil
	case current == PhaseFinalTurn && event == EventFinalize:
		return PhaseGameOver, nil
	}

	return current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, current)
}
