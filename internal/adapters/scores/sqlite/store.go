// Package sqlite keeps the score board of finished runs in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	defaultTopLimit = 10
	// fixed width so finished_at sorts lexically
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type ScoreBoard struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ ports.ScoreBoard = (*ScoreBoard)(nil)

// Open opens (or creates) the database at path and applies pending
// migrations.
func Open(path string, logger *zap.Logger) (*ScoreBoard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create scores directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &ScoreBoard{db: db, logger: logger}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *ScoreBoard) Close() error { return s.db.Close() }

func (s *ScoreBoard) Record(ctx context.Context, entry ports.ScoreEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (session_id, gold, relationship, gold_band, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(entry.SessionID), entry.Gold, entry.Relationship, string(entry.GoldBand), entry.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Top lists the richest runs first; earlier finishes win ties.
func (s *ScoreBoard) Top(ctx context.Context, limit int) ([]ports.ScoreEntry, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, gold, relationship, gold_band, finished_at
		FROM scores
		ORDER BY gold DESC, finished_at ASC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var entries []ports.ScoreEntry
	for rows.Next() {
		var (
			sessionID  string
			band       string
			finishedAt string
			entry      ports.ScoreEntry
		)
		if err := rows.Scan(&sessionID, &entry.Gold, &entry.Relationship, &band, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		entry.SessionID = domain.SessionID(sessionID)
		entry.GoldBand = domain.GoldBand(band)
		entry.FinishedAt, err = time.Parse(timeLayout, finishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finishedAt, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}

	return entries, nil
}

func (s *ScoreBoard) runMigrations() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     INTEGER PRIMARY KEY,
			applied_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			description TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, rest, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(prefix, "%d", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		description := strings.TrimSuffix(rest, ".sql")

		content, err := migrationsFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", e.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", e.Name(), err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, description) VALUES (?, ?)", version, description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", e.Name(), err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", e.Name(), err)
		}
		s.logger.Debug("applied migration", zap.Int("version", version), zap.String("description", description))
	}
	return nil
}
