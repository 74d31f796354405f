package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Sessions []sessionSchema `toml:"sessions"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported sessions schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	ID             string          `toml:"id"`
	Day            int             `toml:"day"`
	Turn           int             `toml:"turn"`
	Gold           int64           `toml:"gold"`
	GoldAtDayStart int64           `toml:"gold_at_day_start"`
	Relationship   int             `toml:"relationship"`
	Phase          string          `toml:"phase"`
	StartedAt      string          `toml:"started_at"`
	UpdatedAt      string          `toml:"updated_at"`
	Conversation   []messageSchema `toml:"conversation,omitempty"`
	Memories       []memorySchema  `toml:"memories,omitempty"`
	Facts          []factSchema    `toml:"facts,omitempty"`
}

type messageSchema struct {
	Speaker string `toml:"speaker"`
	Text    string `toml:"text"`
}

type memorySchema struct {
	Day           int             `toml:"day"`
	Mode          string          `toml:"mode"`
	CondensedText string          `toml:"condensed_text,omitempty"`
	Messages      []messageSchema `toml:"messages,omitempty"`
	Exchanges     int             `toml:"exchanges"`
	GoldEarned    int64           `toml:"gold_earned"`
}

// factSchema flattens the fact map so the file keeps a stable key order.
type factSchema struct {
	Key    string   `toml:"key"`
	Scalar string   `toml:"scalar,omitempty"`
	Values []string `toml:"values,omitempty"`
	Listy  bool     `toml:"listy,omitempty"`
}
