package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	sessionsPathKey  = "sessions.path"
	sessionsFileMode = 0o600
	sessionsDirMode  = 0o700
	hoardConfigDir   = ".hoard"
	sessionsFile     = "sessions.toml"
	tempFilePattern  = ".sessions-*.toml.tmp"
)

type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(sessionsPathKey, filepath.Join(homeDir, hoardConfigDir, sessionsFile))

	path := cfg.GetString(sessionsPathKey)
	if path == "" {
		return nil, errors.New("sessions path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(session)
	updated := false
	for i := range file.Sessions {
		if file.Sessions[i].ID == encoded.ID {
			file.Sessions[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Sessions = append(file.Sessions, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Session{}, err
	}

	for _, entry := range file.Sessions {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Session{}, domain.ErrSessionNotFound
}

// Latest returns the most recently updated session. Ties go to the one
// written last.
func (r *Repository) Latest(ctx context.Context) (domain.Session, error) {
	sessions, err := r.List(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	latest := sessions[0]
	for _, session := range sessions[1:] {
		if !session.UpdatedAt.Before(latest.UpdatedAt) {
			latest = session
		}
	}

	return latest, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(file.Sessions))
	for _, entry := range file.Sessions {
		sessions = append(sessions, fromSchema(entry))
	}

	return sessions, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read sessions file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode sessions file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve sessions path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), sessionsDirMode); err != nil {
		return fmt.Errorf("create sessions directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode sessions file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp sessions file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp sessions file: %w", err)
	}
	if err := tempFile.Chmod(sessionsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp sessions file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp sessions file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace sessions file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(session domain.Session) sessionSchema {
	memories := make([]memorySchema, 0, len(session.Memories))
	for _, memory := range session.Memories {
		memories = append(memories, memorySchema{
			Day:           memory.Day,
			Mode:          string(memory.Mode),
			CondensedText: memory.CondensedText,
			Messages:      toMessageSchemas(memory.Messages),
			Exchanges:     memory.ExchangeCount,
			GoldEarned:    memory.GoldEarned,
		})
	}

	facts := make([]factSchema, 0, len(session.Facts))
	for _, key := range session.Facts.Keys() {
		value := session.Facts[key]
		facts = append(facts, factSchema{
			Key:    key,
			Scalar: value.Scalar,
			Values: value.Set,
			Listy:  value.Listy,
		})
	}

	return sessionSchema{
		ID:             string(session.ID),
		Day:            session.Day,
		Turn:           session.Turn,
		Gold:           session.Gold,
		GoldAtDayStart: session.GoldAtDayStart,
		Relationship:   session.Relationship,
		Phase:          string(session.Phase),
		StartedAt:      formatTime(session.StartedAt),
		UpdatedAt:      formatTime(session.UpdatedAt),
		Conversation:   toMessageSchemas(session.Conversation),
		Memories:       memories,
		Facts:          facts,
	}
}

func fromSchema(entry sessionSchema) domain.Session {
	var memories []domain.DayMemory
	for _, memory := range entry.Memories {
		memories = append(memories, domain.DayMemory{
			Day:           memory.Day,
			Mode:          domain.MemoryMode(memory.Mode),
			CondensedText: memory.CondensedText,
			Messages:      fromMessageSchemas(memory.Messages),
			ExchangeCount: memory.Exchanges,
			GoldEarned:    memory.GoldEarned,
		})
	}

	facts := domain.FactStore{}
	for _, fact := range entry.Facts {
		facts[fact.Key] = domain.FactValue{Scalar: fact.Scalar, Set: fact.Values, Listy: fact.Listy}
	}

	return domain.Session{
		ID:             domain.SessionID(entry.ID),
		Day:            entry.Day,
		Turn:           entry.Turn,
		Gold:           entry.Gold,
		GoldAtDayStart: entry.GoldAtDayStart,
		Relationship:   entry.Relationship,
		Phase:          domain.Phase(entry.Phase),
		Conversation:   fromMessageSchemas(entry.Conversation),
		Memories:       memories,
		Facts:          facts,
		StartedAt:      parseTime(entry.StartedAt),
		UpdatedAt:      parseTime(entry.UpdatedAt),
	}
}

func toMessageSchemas(messages []domain.Message) []messageSchema {
	if len(messages) == 0 {
		return nil
	}

	out := make([]messageSchema, 0, len(messages))
	for _, message := range messages {
		out = append(out, messageSchema{Speaker: string(message.Speaker), Text: message.Text})
	}
	return out
}

func fromMessageSchemas(messages []messageSchema) []domain.Message {
	if len(messages) == 0 {
		return nil
	}

	out := make([]domain.Message, 0, len(messages))
	for _, message := range messages {
		out = append(out, domain.Message{Speaker: domain.Speaker(message.Speaker), Text: message.Text})
	}
	return out
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
