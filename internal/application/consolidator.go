package application

import (
	"context"
	"strings"

	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	"go.uber.org/zap"
)

// MemoryStrategy turns a finished day's conversation into a DayMemory.
type MemoryStrategy interface {
	Mode() domain.MemoryMode
	Consolidate(day int, conversation []domain.Message, goldEarned int64) domain.DayMemory
}

func NewMemoryStrategy(mode domain.MemoryMode) MemoryStrategy {
	if mode == domain.MemoryModeSummary {
		return summaryStrategy{}
	}
	return transcriptStrategy{}
}

type summaryStrategy struct{}

func (summaryStrategy) Mode() domain.MemoryMode { return domain.MemoryModeSummary }

func (summaryStrategy) Consolidate(day int, conversation []domain.Message, goldEarned int64) domain.DayMemory {
	dialogue := domain.WithoutSystemNotes(conversation)
	lines := make([]string, 0, len(dialogue))
	for _, message := range dialogue {
		lines = append(lines, domain.FormatLine(message))
	}

	return domain.DayMemory{
		Day:           day,
		Mode:          domain.MemoryModeSummary,
		CondensedText: strings.Join(lines, domain.SummarySeparator),
		ExchangeCount: domain.CountUserMessages(dialogue),
		GoldEarned:    goldEarned,
	}
}

type transcriptStrategy struct{}

func (transcriptStrategy) Mode() domain.MemoryMode { return domain.MemoryModeTranscript }

func (transcriptStrategy) Consolidate(day int, conversation []domain.Message, goldEarned int64) domain.DayMemory {
	dialogue := domain.WithoutSystemNotes(conversation)
	return domain.DayMemory{
		Day:           day,
		Mode:          domain.MemoryModeTranscript,
		Messages:      dialogue,
		ExchangeCount: domain.CountUserMessages(dialogue),
		GoldEarned:    goldEarned,
	}
}

// FactExtractor asks the model what the day revealed about the traveler.
// Failures are logged and produce an empty delta.
type FactExtractor struct {
	gen    ports.Generator
	opts   ports.GenerateOptions
	logger *zap.Logger
}

func NewFactExtractor(gen ports.Generator, opts ports.GenerateOptions, logger *zap.Logger) *FactExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactExtractor{gen: gen, opts: opts, logger: logger}
}

func (x *FactExtractor) Extract(ctx context.Context, conversation []domain.Message) map[string]domain.FactValue {
	dialogue := domain.WithoutSystemNotes(conversation)
	if len(dialogue) == 0 {
		return map[string]domain.FactValue{}
	}

	raw, err := x.gen.Generate(ctx, ComposeFactPrompt(dialogue), x.opts)
	if err != nil {
		x.logger.Warn("fact extraction request failed", zap.Error(err))
		return map[string]domain.FactValue{}
	}

	delta, err := InterpretFacts(raw)
	if err != nil {
		x.logger.Warn("fact extraction reply was not valid json", zap.Error(err), zap.String("raw", raw))
		return map[string]domain.FactValue{}
	}

	x.logger.Debug("extracted traveler facts", zap.Int("keys", len(delta)))
	return delta
}

// Consolidator runs once per day boundary.
type Consolidator struct {
	strategy MemoryStrategy
	facts    *FactExtractor
	policy   domain.FactPolicy
}

func NewConsolidator(strategy MemoryStrategy, facts *FactExtractor, policy domain.FactPolicy) *Consolidator {
	return &Consolidator{strategy: strategy, facts: facts, policy: policy}
}

// Consolidate returns the day's memory and the updated fact store. The
// input store is not modified.
func (c *Consolidator) Consolidate(ctx context.Context, day int, conversation []domain.Message, goldEarned int64, known domain.FactStore) (domain.DayMemory, domain.FactStore) {
	memory := c.strategy.Consolidate(day, conversation, goldEarned)
	if c.facts == nil {
		return memory, known
	}

	return memory, known.Merge(c.facts.Extract(ctx, conversation), c.policy)
}
