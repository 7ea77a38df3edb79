package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// Store persists conversation turns in SQLite and serves the bounded context
// windows the dispatch pipeline reads. It implements dispatch.ContextProvider.
type Store struct {
	db       *sql.DB
	maxTurns int
	logger   zerolog.Logger
	mu       sync.Mutex
}

// Config holds history store configuration
type Config struct {
	Path     string
	MaxTurns int
	Logger   zerolog.Logger
}

// NewStore opens the history database, creating it if needed.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{
		db:       db,
		maxTurns: cfg.MaxTurns,
		logger:   cfg.Logger,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Info().Str("path", cfg.Path).Msg("History store initialized")
	return s, nil
}

// initSchema creates database tables
func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS turns (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one conversation turn and prunes history past the
// configured cap.
func (s *Store) Append(role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO turns (id, role, text, created_at) VALUES (?, ?, ?, ?)",
		uuid.NewString(), role, text, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	if s.maxTurns > 0 {
		_, err = s.db.Exec(
			"DELETE FROM turns WHERE seq <= (SELECT MAX(seq) FROM turns) - ?",
			s.maxTurns,
		)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
	}
	return nil
}

// Recent returns the most recent turns in chronological order. A limit of
// zero or less returns an empty conversation.
func (s *Store) Recent(limit int) (dispatch.Conversation, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(
		"SELECT role, text FROM (SELECT seq, role, text FROM turns ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var convo dispatch.Conversation
	for rows.Next() {
		var turn dispatch.Turn
		if err := rows.Scan(&turn.Role, &turn.Text); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		convo = append(convo, turn)
	}
	return convo, rows.Err()
}

// Len returns the number of stored turns.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM turns").Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
