package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRelationshipDeltaStaysInBounds(t *testing.T) {
	tests := []struct {
		name    string
		current int
		delta   int
		want    int
	}{
		{name: "small positive", current: 0, delta: 2, want: 2},
		{name: "small negative", current: 1, delta: -3, want: -2},
		{name: "clamps high", current: 9, delta: 3, want: 10},
		{name: "clamps low", current: -9, delta: -3, want: -10},
		{name: "huge positive delta", current: 0, delta: 1_000_000, want: 10},
		{name: "huge negative delta", current: 0, delta: -1_000_000, want: -10},
		{name: "zero delta", current: -4, delta: 0, want: -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyRelationshipDelta(tt.current, tt.delta)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, MinRelationship)
			assert.LessOrEqual(t, got, MaxRelationship)
		})
	}
}

func TestClassifyRelationshipBands(t *testing.T) {
	tests := []struct {
		r    int
		want RelationshipBand
	}{
		{r: 10, want: RelationshipFriend},
		{r: 6, want: RelationshipFriend},
		{r: 5, want: RelationshipPositive},
		{r: 1, want: RelationshipPositive},
		{r: 0, want: RelationshipIndifferent},
		{r: -1, want: RelationshipWary},
		{r: -5, want: RelationshipWary},
		{r: -6, want: RelationshipHostile},
		{r: -10, want: RelationshipHostile},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRelationship(tt.r), "relationship %d", tt.r)
	}
}

func TestRelationshipHint(t *testing.T) {
	assert.Equal(t, "You have grown quite fond of this traveler.", RelationshipHint(6))
	assert.Equal(t, "This traveler annoys you greatly.", RelationshipHint(-6))
	assert.Equal(t, "Your opinion of this traveler is mildly positive.", RelationshipHint(5))
	assert.Equal(t, "Your opinion of this traveler is mildly negative.", RelationshipHint(-5))
	assert.Empty(t, RelationshipHint(0))
}
