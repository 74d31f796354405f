package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/bnema/dragon-hoard/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func dayConversation() []domain.Message {
	return []domain.Message{
		{Speaker: domain.SpeakerUser, Text: "I'm Alice."},
		{Speaker: domain.SpeakerCharacter, Text: "Welcome, Alice."},
		domain.GoldNote(100, 100),
		{Speaker: domain.SpeakerUser, Text: "Do you like riddles?"},
		{Speaker: domain.SpeakerCharacter, Text: "Only good ones."},
	}
}

func TestMemoryStrategies(t *testing.T) {
	t.Parallel()

	summary := NewMemoryStrategy(domain.MemoryModeSummary).Consolidate(2, dayConversation(), 100)
	assert.Equal(t, domain.DayMemory{
		Day:           2,
		Mode:          domain.MemoryModeSummary,
		CondensedText: "Traveler: I'm Alice. | Dragon: Welcome, Alice. | Traveler: Do you like riddles? | Dragon: Only good ones.",
		ExchangeCount: 2,
		GoldEarned:    100,
	}, summary)
	assert.Equal(t, 2, summary.Exchanges())

	transcript := NewMemoryStrategy(domain.MemoryModeTranscript).Consolidate(2, dayConversation(), 100)
	assert.Equal(t, domain.MemoryModeTranscript, transcript.Mode)
	assert.Len(t, transcript.Messages, 4)
	for _, message := range transcript.Messages {
		assert.False(t, message.IsSystemNote())
	}

	assert.Equal(t, domain.MemoryModeTranscript, NewMemoryStrategy("").Mode())
}

func TestSummaryMemoryCountsExchangesFromConversation(t *testing.T) {
	t.Parallel()

	conversation := []domain.Message{
		{Speaker: domain.SpeakerUser, Text: "Tell me a story."},
		{Speaker: domain.SpeakerCharacter, Text: "Once a knight said | Traveler: spare me | and I laughed."},
	}

	memory := NewMemoryStrategy(domain.MemoryModeSummary).Consolidate(1, conversation, 0)
	assert.Equal(t, 1, memory.Exchanges())
	assert.Equal(t, "Day 1: 1 exchanges, earned 0 gold", memory.Digest())
}

func TestConsolidatorMergesExtractedFacts(t *testing.T) {
	t.Parallel()

	factOpts := ports.GenerateOptions{Temperature: 0.7, MaxOutputTokens: 300}
	gen := mocks.NewMockGenerator(t)
	gen.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return !strings.Contains(prompt, "💰")
		}), factOpts).
		Return("```json\n{\"name\": \"Alice\", \"interests\": [\"riddles\"], \"dragon_opinion\": \"tasty\"}\n```", nil).
		Once()

	consolidator := NewConsolidator(
		NewMemoryStrategy(domain.MemoryModeTranscript),
		NewFactExtractor(gen, factOpts, nil),
		domain.DefaultFactPolicy(),
	)
	known := domain.FactStore{"interests": domain.SetFact("gold")}

	memory, facts := consolidator.Consolidate(context.Background(), 1, dayConversation(), 100, known)

	assert.Equal(t, int64(100), memory.GoldEarned)
	assert.Equal(t, "Alice", facts["name"].Scalar)
	assert.Equal(t, []string{"gold", "riddles"}, facts["interests"].Set)
	assert.NotContains(t, facts, "dragon_opinion")
	assert.Equal(t, []string{"gold"}, known["interests"].Set)
}

func TestFactExtractorFailuresYieldEmptyDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		err     error
		wantLog string
	}{
		{name: "transport error", err: errors.New("connection reset"), wantLog: "fact extraction request failed"},
		{name: "prose reply", raw: "The traveler seems nice.", wantLog: "fact extraction reply was not valid json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			gen := mocks.NewMockGenerator(t)
			gen.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).Return(tt.raw, tt.err).Once()

			consolidator := NewConsolidator(
				NewMemoryStrategy(domain.MemoryModeSummary),
				NewFactExtractor(gen, ports.GenerateOptions{}, zap.New(core)),
				domain.DefaultFactPolicy(),
			)
			known := domain.FactStore{"name": domain.ScalarFact("Alice")}

			memory, facts := consolidator.Consolidate(context.Background(), 1, dayConversation(), 0, known)

			assert.Equal(t, known, facts)
			assert.NotEmpty(t, memory.CondensedText)
			require.Equal(t, 1, logs.FilterMessage(tt.wantLog).Len())
		})
	}
}

func TestFactExtractorSkipsEmptyDialogue(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGenerator(t)
	extractor := NewFactExtractor(gen, ports.GenerateOptions{}, nil)

	assert.Empty(t, extractor.Extract(context.Background(), []domain.Message{domain.GoldNote(5, 5)}))
}
