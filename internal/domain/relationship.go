package domain

const (
	MinRelationship = -10
	MaxRelationship = 10

	MinRelationshipChange = -3
	MaxRelationshipChange = 3
)

type RelationshipBand string

const (
	RelationshipFriend      RelationshipBand = "friend"
	RelationshipPositive    RelationshipBand = "positive"
	RelationshipIndifferent RelationshipBand = "indifferent"
	RelationshipWary        RelationshipBand = "wary"
	RelationshipHostile     RelationshipBand = "hostile"
)

func ApplyRelationshipDelta(current, delta int) int {
	next := current + delta
	if next < MinRelationship {
		return MinRelationship
	}
	if next > MaxRelationship {
		return MaxRelationship
	}
	return next
}

func ClassifyRelationship(r int) RelationshipBand {
	switch {
	case r > 5:
		return RelationshipFriend
	case r > 0:
		return RelationshipPositive
	case r == 0:
		return RelationshipIndifferent
	case r >= -5:
		return RelationshipWary
	default:
		return RelationshipHostile
	}
}

// Ending is the closing line shown once the session is over.
func (b RelationshipBand) Ending() string {
	switch b {
	case RelationshipFriend:
		return "The dragon considers you a friend"
	case RelationshipPositive:
		return "The dragon respects you"
	case RelationshipIndifferent:
		return "The dragon is indifferent"
	case RelationshipWary:
		return "The dragon is wary of you"
	default:
		return "The dragon dislikes you greatly"
	}
}

func (b RelationshipBand) Mood() string {
	switch b {
	case RelationshipFriend:
		return "😊"
	case RelationshipPositive:
		return "🙂"
	case RelationshipIndifferent:
		return "😶"
	case RelationshipWary:
		return "😐"
	default:
		return "😠"
	}
}

// RelationshipHint is the sentiment line fed to the character. Zero yields no hint.
func RelationshipHint(r int) string {
	switch {
	case r > 5:
		return "You have grown quite fond of this traveler."
	case r < -5:
		return "This traveler annoys you greatly."
	case r > 0:
		return "Your opinion of this traveler is mildly positive."
	case r < 0:
		return "Your opinion of this traveler is mildly negative."
	default:
		return ""
	}
}
