package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrRequestInFlight = errors.New("a request is already in flight")
	ErrGeneration      = errors.New("generate reply")
)

// TurnOutcome reports what a submission did. Ignored submissions change
// nothing.
type TurnOutcome struct {
	Ignored bool
	Reply   Reply
	DayOver bool
	Phase   domain.Phase
}

type EngineOption func(*Engine)

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithClock(clock ports.Clock) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithSessionRepository persists the session after every state change.
func WithSessionRepository(repo ports.SessionRepository) EngineOption {
	return func(e *Engine) { e.repo = repo }
}

// WithScoreBoard records finalized sessions.
func WithScoreBoard(scores ports.ScoreBoard) EngineOption {
	return func(e *Engine) { e.scores = scores }
}

// WithSession resumes an existing session instead of starting a new one.
func WithSession(session domain.Session) EngineOption {
	return func(e *Engine) {
		e.session = session
		e.resumed = true
	}
}

// Engine drives a single session. Operations are serialized by an in-flight
// flag: anything attempted while a request is pending is rejected, never
// queued.
type Engine struct {
	gen          ports.Generator
	cfg          EngineConfig
	consolidator *Consolidator
	repo         ports.SessionRepository
	scores       ports.ScoreBoard
	clock        ports.Clock
	logger       *zap.Logger

	inFlight atomic.Bool

	mu            sync.Mutex
	session       domain.Session
	resumed       bool
	consolidating bool
}

func NewEngine(gen ports.Generator, cfg EngineConfig, opts ...EngineOption) (*Engine, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if err := cfg.Persona.Validate(); err != nil {
		return nil, fmt.Errorf("validate persona: %w", err)
	}
	if cfg.MemoryMode == "" {
		cfg.MemoryMode = domain.MemoryModeTranscript
	}

	e := &Engine{
		gen:    gen,
		cfg:    cfg,
		clock:  ports.SystemClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	var extractor *FactExtractor
	if cfg.ExtractFacts {
		extractor = NewFactExtractor(gen, cfg.FactOptions, e.logger.Named("facts"))
	}
	e.consolidator = NewConsolidator(NewMemoryStrategy(cfg.MemoryMode), extractor, cfg.FactPolicy)

	if !e.resumed {
		e.session = domain.NewSession(NewSessionID(), e.clock.Now())
	}
	if e.session.Facts == nil {
		e.session.Facts = domain.FactStore{}
	}
	if !e.session.Phase.Valid() {
		return nil, fmt.Errorf("resume session %s: unknown phase %q", e.session.ID, e.session.Phase)
	}

	e.logger = e.logger.With(zap.String("session", string(e.session.ID)))
	return e, nil
}

func NewSessionID() domain.SessionID {
	return domain.SessionID(uuid.NewString())
}

// View snapshots the session. While a finished day is being consolidated the
// last turn is already counted but the phase is still Playing; Consolidating
// is set for that window so callers can show progress instead of a turn
// number past the end of the day.
func (e *Engine) View() SessionView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := NewSessionView(e.session, e.cfg.GoldThresholds, e.cfg.TrackRelationship)
	view.Consolidating = e.consolidating
	return view
}

func (e *Engine) SessionID() domain.SessionID {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.ID
}

// Busy reports whether a request is pending.
func (e *Engine) Busy() bool {
	return e.inFlight.Load()
}

// SubmitUtterance plays one turn. Blank input and submissions made while
// another request is pending are ignored. A generator failure rolls the
// conversation back and leaves the session as it was.
func (e *Engine) SubmitUtterance(ctx context.Context, text string) (TurnOutcome, error) {
	utterance := strings.TrimSpace(text)
	if utterance == "" {
		return TurnOutcome{Ignored: true, Phase: e.phase()}, nil
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		e.logger.Debug("ignoring utterance while a request is in flight")
		return TurnOutcome{Ignored: true, Phase: e.phase()}, nil
	}
	defer e.inFlight.Store(false)

	e.mu.Lock()
	if e.session.Phase != domain.PhasePlaying {
		phase := e.session.Phase
		e.mu.Unlock()
		return TurnOutcome{Phase: phase}, fmt.Errorf("submit utterance: %w: phase is %s", domain.ErrInvalidTransition, phase)
	}
	prompt := ComposeTurnPrompt(e.session, utterance, e.cfg.promptOptions())
	checkpoint := len(e.session.Conversation)
	e.session.Conversation = append(e.session.Conversation, domain.Message{Speaker: domain.SpeakerUser, Text: utterance})
	e.mu.Unlock()

	raw, err := e.gen.Generate(ctx, prompt, e.cfg.TurnOptions)
	if err != nil {
		e.mu.Lock()
		e.session.Conversation = e.session.Conversation[:checkpoint]
		phase := e.session.Phase
		e.mu.Unlock()

		e.logger.Warn("turn request failed", zap.Error(err))
		return TurnOutcome{Phase: phase}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	reply := InterpretReply(raw)
	if reply.Kind == ReplyUnstructured {
		e.logger.Warn("model reply was not structured", zap.Error(reply.Err), zap.String("raw", raw))
	}

	e.mu.Lock()
	e.applyReply(reply)
	dayOver, err := e.session.CompleteTurn()
	if err != nil {
		e.mu.Unlock()
		return TurnOutcome{Reply: reply}, fmt.Errorf("complete turn: %w", err)
	}
	if !dayOver {
		e.touch()
		e.persist(ctx)
		outcome := TurnOutcome{Reply: reply, Phase: e.session.Phase}
		e.mu.Unlock()
		return outcome, nil
	}

	day := e.session.Day
	conversation := slices.Clone(e.session.Conversation)
	goldEarned := e.session.GoldDelta()
	known := e.session.Facts.Clone()
	e.consolidating = true
	e.mu.Unlock()

	memory, facts := e.consolidator.Consolidate(ctx, day, conversation, goldEarned, known)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.consolidating = false

	e.session.AppendMemory(memory)
	e.session.Facts = facts
	if err := e.session.CloseDay(); err != nil {
		return TurnOutcome{Reply: reply}, fmt.Errorf("close day: %w", err)
	}
	e.touch()
	e.persist(ctx)
	e.logger.Info("day closed",
		zap.Int("day", day),
		zap.Int64("gold_earned", goldEarned),
		zap.String("phase", string(e.session.Phase)),
	)

	return TurnOutcome{Reply: reply, DayOver: true, Phase: e.session.Phase}, nil
}

func (e *Engine) applyReply(reply Reply) {
	e.session.Gold = domain.AddGold(e.session.Gold, reply.GoldDelta)
	if e.cfg.TrackRelationship {
		e.session.Relationship = domain.ApplyRelationshipDelta(e.session.Relationship, reply.RelationshipDelta)
	}

	e.session.Conversation = append(e.session.Conversation, domain.Message{Speaker: domain.SpeakerCharacter, Text: reply.Message})
	if reply.GoldDelta != 0 {
		e.session.Conversation = append(e.session.Conversation, domain.GoldNote(reply.GoldDelta, e.session.Gold))
	}
}

// AdvanceToNextDay starts the next day after a day has ended.
func (e *Engine) AdvanceToNextDay(ctx context.Context) error {
	return e.transition(ctx, "advance to next day", func(s *domain.Session) error {
		return s.BeginNextDay()
	})
}

// FinalizeSession ends the run after the last exchange and records its score.
func (e *Engine) FinalizeSession(ctx context.Context) error {
	if err := e.transition(ctx, "finalize session", func(s *domain.Session) error {
		return s.Finalize()
	}); err != nil {
		return err
	}

	if e.scores == nil {
		return nil
	}

	e.mu.Lock()
	entry := ports.ScoreEntry{
		SessionID:    e.session.ID,
		Gold:         e.session.Gold,
		Relationship: e.session.Relationship,
		GoldBand:     e.cfg.GoldThresholds.Classify(e.session.Gold),
		FinishedAt:   e.session.UpdatedAt,
	}
	e.mu.Unlock()

	if err := e.scores.Record(ctx, entry); err != nil {
		e.logger.Warn("record score", zap.Error(err))
	}
	return nil
}

// RestartSession wipes all progress, keeping the session id.
func (e *Engine) RestartSession(ctx context.Context) error {
	return e.transition(ctx, "restart session", func(s *domain.Session) error {
		return s.Restart(e.clock.Now())
	})
}

func (e *Engine) transition(ctx context.Context, action string, apply func(*domain.Session) error) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", action, ErrRequestInFlight)
	}
	defer e.inFlight.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := apply(&e.session); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	e.touch()
	e.persist(ctx)
	e.logger.Debug(action, zap.Int("day", e.session.Day), zap.String("phase", string(e.session.Phase)))

	return nil
}

func (e *Engine) phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.Phase
}

func (e *Engine) touch() {
	e.session.UpdatedAt = e.clock.Now()
}

// persist must be called with mu held. Failures are logged; the in-memory
// session stays authoritative.
func (e *Engine) persist(ctx context.Context) {
	if e.repo == nil {
		return
	}
	if err := e.repo.Save(ctx, e.session); err != nil {
		e.logger.Error("save session", zap.Error(err))
	}
}
