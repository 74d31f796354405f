package application

import (
	"testing"

	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretReplyStructured(t *testing.T) {
	t.Parallel()

	reply := InterpretReply(`{"gold": 1247, "message": "Your words amuse me, mortal.", "relationship_change": 1}`)

	require.Equal(t, ReplyStructured, reply.Kind)
	assert.NoError(t, reply.Err)
	assert.Equal(t, int64(1247), reply.GoldDelta)
	assert.Equal(t, "Your words amuse me, mortal.", reply.Message)
	assert.Equal(t, 1, reply.RelationshipDelta)
}

func TestInterpretReplyFencedPayloadMatchesBare(t *testing.T) {
	t.Parallel()

	bare := `{"gold": -683, "message": "Your insolence displeases me!", "relationship_change": -2}`
	variants := map[string]string{
		"json tag":      "```json\n" + bare + "\n```",
		"upper tag":     "```JSON\n" + bare + "\n```",
		"no tag":        "```\n" + bare + "\n```",
		"padded":        "\n\n  " + bare + "  \n",
		"inline fence":  "```json" + bare + "```",
		"leading fence": "```json\n" + bare,
	}

	want := InterpretReply(bare)
	for name, raw := range variants {
		t.Run(name, func(t *testing.T) {
			got := InterpretReply(raw)
			assert.Equal(t, want.Kind, got.Kind)
			assert.Equal(t, want.GoldDelta, got.GoldDelta)
			assert.Equal(t, want.Message, got.Message)
			assert.Equal(t, want.RelationshipDelta, got.RelationshipDelta)
		})
	}
}

func TestInterpretReplyFallsBackToRawText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose", raw: "The dragon yawns and ignores you."},
		{name: "truncated json", raw: `{"gold": 10, "message": "Take th`},
		{name: "array", raw: `[{"gold": 10}]`},
		{name: "null", raw: "null"},
		{name: "missing message", raw: `{"gold": 10}`},
		{name: "missing gold", raw: `{"message": "Hello."}`},
		{name: "non string message", raw: `{"gold": 10, "message": 42}`},
		{name: "trailing text", raw: `{"gold": 10, "message": "Hi."} and more`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := InterpretReply(tt.raw)

			assert.Equal(t, ReplyUnstructured, reply.Kind)
			assert.Equal(t, tt.raw, reply.Message)
			assert.Zero(t, reply.GoldDelta)
			assert.Zero(t, reply.RelationshipDelta)
			assert.ErrorIs(t, reply.Err, ErrMalformedReply)
		})
	}
}

func TestInterpretReplyNumericCoercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		raw              string
		wantGold         int64
		wantRelationship int
	}{
		{name: "string gold", raw: `{"gold": "lots", "message": "Hm."}`, wantGold: 0},
		{name: "numeric string gold", raw: `{"gold": "250", "message": "Hm."}`, wantGold: 0},
		{name: "null gold", raw: `{"gold": null, "message": "Hm."}`, wantGold: 0},
		{name: "fractional gold", raw: `{"gold": 12.9, "message": "Hm."}`, wantGold: 12},
		{name: "negative fractional gold", raw: `{"gold": -12.9, "message": "Hm."}`, wantGold: -12},
		{name: "exponent gold", raw: `{"gold": 1e3, "message": "Hm."}`, wantGold: 1000},
		{name: "absent relationship", raw: `{"gold": 5, "message": "Hm."}`, wantGold: 5, wantRelationship: 0},
		{name: "out of range relationship", raw: `{"gold": 5, "message": "Hm.", "relationship_change": 9}`, wantGold: 5, wantRelationship: 9},
		{name: "bad relationship", raw: `{"gold": 5, "message": "Hm.", "relationship_change": "up"}`, wantGold: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := InterpretReply(tt.raw)

			require.Equal(t, ReplyStructured, reply.Kind)
			assert.Equal(t, tt.wantGold, reply.GoldDelta)
			assert.Equal(t, tt.wantRelationship, reply.RelationshipDelta)
		})
	}
}

func TestInterpretFacts(t *testing.T) {
	t.Parallel()

	delta, err := InterpretFacts("```json\n" + `{
		"name": "Alice",
		"personality_traits": ["brave", "curious", "brave"],
		"age": 30,
		"hometown": "  ",
		"notes": null,
		"pets": {"cat": "Tom"}
	}` + "\n```")
	require.NoError(t, err)

	assert.Equal(t, domain.ScalarFact("Alice"), delta["name"])
	assert.Equal(t, domain.SetFact("brave", "curious"), delta["personality_traits"])
	assert.Equal(t, domain.ScalarFact("30"), delta["age"])
	assert.NotContains(t, delta, "hometown")
	assert.NotContains(t, delta, "notes")
	assert.NotContains(t, delta, "pets")
}

func TestInterpretFactsRejectsGarbage(t *testing.T) {
	t.Parallel()

	delta, err := InterpretFacts("I could not find any facts.")
	require.ErrorIs(t, err, ErrMalformedReply)
	assert.Empty(t, delta)
}
