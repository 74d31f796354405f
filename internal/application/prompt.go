package application

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/dragon-hoard/internal/domain"
)

type PromptOptions struct {
	Persona           domain.Persona
	TrackRelationship bool
	UseFacts          bool
}

// ComposeTurnPrompt renders the full request for one traveler utterance.
// It is deterministic for a given session, utterance and options.
func ComposeTurnPrompt(session domain.Session, utterance string, opts PromptOptions) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(opts.Persona.Setting))
	b.WriteString("\n\nCharacter traits:\n")
	for _, trait := range opts.Persona.Traits {
		fmt.Fprintf(&b, "- %s\n", trait)
	}
	b.WriteString("- You respond in MAX 2 SENTENCES\n")
	b.WriteString("- You have an excellent memory and remember previous conversations with this traveler\n")
	b.WriteString("- ANSWER THE TRAVELER'S QUESTIONS directly and conversationally - don't ignore what they ask\n")
	if opts.UseFacts {
		b.WriteString("- USE THE FACTS YOU KNOW about the traveler to personalize your responses\n")
	}
	if opts.TrackRelationship {
		if hint := domain.RelationshipHint(session.Relationship); hint != "" {
			b.WriteString(hint)
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nCurrent situation: Day %d, Turn %d/%d\n", session.Day, session.Turn+1, domain.TurnsPerDay)
	if opts.TrackRelationship {
		fmt.Fprintf(&b, "Relationship level: %d/%d\n", session.Relationship, domain.MaxRelationship)
	}

	writePastDays(&b, session.Memories)
	writeToday(&b, session.DialogueMessages())
	if opts.UseFacts {
		writeFacts(&b, session.Facts)
	}

	fmt.Fprintf(&b, "\nTraveler's new message: \"%s\"\n", utterance)

	b.WriteString("\nCRITICAL: Respond with ONLY a valid JSON object in this exact format:\n{\n")
	b.WriteString("  \"gold\": <integer number of gold coins, positive to give, negative to take>,\n")
	if opts.TrackRelationship {
		b.WriteString("  \"message\": \"<your 2-sentence response to the traveler - ANSWER their question if they asked one>\",\n")
		b.WriteString("  \"relationship_change\": <integer from -3 to +3 indicating how this interaction affected your opinion of them>\n")
	} else {
		b.WriteString("  \"message\": \"<your 2-sentence response to the traveler - ANSWER their question if they asked one>\"\n")
	}
	b.WriteString("}\n")

	if len(opts.Persona.Examples) > 0 {
		b.WriteString("\nExample responses:\n")
		for _, example := range opts.Persona.Examples {
			b.WriteString(renderExample(example, opts.TrackRelationship))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUse varied amounts - not just multiples of 100. Be creative with the gold amounts based on your mood.\n")
	b.WriteString("REMEMBER: Actually answer questions the traveler asks you!\n")
	if opts.UseFacts {
		known := "nothing yet - learn about them!"
		if session.Facts.Known() {
			known = "their name, background, etc."
		}
		fmt.Fprintf(&b, "IMPORTANT: Use what you know about them (%s) to make responses personal.\n", known)
	}
	b.WriteString("\nDO NOT include anything outside the JSON object. Your entire response must be valid JSON only.")

	return b.String()
}

func writePastDays(b *strings.Builder, memories []domain.DayMemory) {
	if len(memories) == 0 {
		return
	}

	b.WriteString("\n=== PAST DAYS ===\n")
	for _, memory := range memories {
		fmt.Fprintf(b, "\n--- Day %d ---\n", memory.Day)
		if memory.Mode == domain.MemoryModeSummary {
			b.WriteString(memory.CondensedText)
			b.WriteString("\n")
		} else {
			for _, message := range memory.Messages {
				b.WriteString(domain.FormatLine(message))
				b.WriteString("\n")
			}
		}
		fmt.Fprintf(b, "(Gold earned: %d)\n", memory.GoldEarned)
	}
}

func writeToday(b *strings.Builder, messages []domain.Message) {
	if len(messages) == 0 {
		return
	}

	b.WriteString("\n=== TODAY SO FAR ===\n")
	for _, message := range messages {
		b.WriteString(domain.FormatLine(message))
		b.WriteString("\n")
	}
}

func writeFacts(b *strings.Builder, facts domain.FactStore) {
	keys := facts.Keys()
	if len(keys) == 0 {
		return
	}

	b.WriteString("\nWhat you know about this traveler:\n")
	for _, key := range keys {
		fmt.Fprintf(b, "- %s: %s\n", key, facts[key].String())
	}
}

func renderExample(example domain.PersonaExample, withRelationship bool) string {
	message, err := json.Marshal(example.Message)
	if err != nil {
		return ""
	}
	if withRelationship {
		return fmt.Sprintf(`{"gold": %d, "message": %s, "relationship_change": %d}`, example.Gold, message, example.RelationshipChange)
	}
	return fmt.Sprintf(`{"gold": %d, "message": %s}`, example.Gold, message)
}

// ComposeFactPrompt asks the model for facts evidenced by the day's dialogue.
func ComposeFactPrompt(messages []domain.Message) string {
	lines := make([]string, 0, len(messages))
	for _, message := range domain.WithoutSystemNotes(messages) {
		lines = append(lines, domain.FormatLine(message))
	}

	return `Analyze this conversation between a traveler and a dragon. Extract key facts about the traveler.

Conversation:
` + strings.Join(lines, "\n") + `

Extract ONLY factual information about the traveler. Return a JSON object with keys like:
- name: their name if mentioned
- occupation: their job/role if mentioned
- hometown: where they're from if mentioned
- personality_traits: array of observed traits
- interests: things they care about

ONLY include keys where information was actually provided. Return ONLY valid JSON, nothing else.

Example: {"name": "Alice", "personality_traits": ["brave", "curious"]}`
}
