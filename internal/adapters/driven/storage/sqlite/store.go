package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/promptdeck/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// DatabaseFileName is the database file inside the data directory.
const DatabaseFileName = "prompts.db"

// Store is a SQLite database holding the prompt table.
type Store struct {
	db   *sql.DB
	path string

	// writeMu serialises read-check-write sequences.
	writeMu sync.Mutex
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.promptdeck/prompts.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".promptdeck")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PromptStore returns a PromptStore interface backed by this store.
func (s *Store) PromptStore() driven.PromptStore {
	return &promptStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_prompts.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Prompt Store ====================

// promptStore implements driven.PromptStore.
type promptStore struct {
	store *Store
}

var _ driven.PromptStore = (*promptStore)(nil)

const selectPrompts = `
	SELECT title, command, content, creator, created_at, modified_at
	FROM prompts`

// List returns all prompts in storage order.
func (p *promptStore) List(ctx context.Context) ([]domain.PromptRecord, error) {
	return p.list(ctx, p.store.db)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (p *promptStore) list(ctx context.Context, q queryer) ([]domain.PromptRecord, error) {
	rows, err := q.QueryContext(ctx, selectPrompts+" ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	defer rows.Close()

	var records []domain.PromptRecord
	for rows.Next() {
		record, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Get retrieves a prompt by title.
func (p *promptStore) Get(ctx context.Context, title string) (*domain.PromptRecord, error) {
	row := p.store.db.QueryRowContext(ctx, selectPrompts+" WHERE title = ?", title)
	record, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
		}
		return nil, err
	}
	return record, nil
}

// Create appends a prompt after the last one.
func (p *promptStore) Create(ctx context.Context, record domain.PromptRecord) error {
	if err := domain.ValidateCommand(record.Command); err != nil {
		return err
	}

	return p.write(ctx, func(tx *sql.Tx, existing []domain.PromptRecord) error {
		if err := domain.CheckConflicts(existing, record, ""); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prompts (title, command, command_key, content, creator, created_at, modified_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM prompts))`,
			record.Title, record.Command, record.Key(), record.Content, record.Creator,
			formatTime(record.Created), formatTime(record.Modified),
		)
		if err != nil {
			return fmt.Errorf("inserting prompt: %w", err)
		}
		return nil
	})
}

// Update replaces the prompt stored under title, keeping its position.
func (p *promptStore) Update(ctx context.Context, title string, record domain.PromptRecord) error {
	if err := domain.ValidateCommand(record.Command); err != nil {
		return err
	}

	return p.write(ctx, func(tx *sql.Tx, existing []domain.PromptRecord) error {
		if !containsTitle(existing, title) {
			return fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
		}
		if err := domain.CheckConflicts(existing, record, title); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE prompts
			SET title = ?, command = ?, command_key = ?, content = ?, creator = ?, created_at = ?, modified_at = ?
			WHERE title = ?`,
			record.Title, record.Command, record.Key(), record.Content, record.Creator,
			formatTime(record.Created), formatTime(record.Modified), title,
		)
		if err != nil {
			return fmt.Errorf("updating prompt: %w", err)
		}
		return nil
	})
}

// Delete removes a prompt by title.
func (p *promptStore) Delete(ctx context.Context, title string) error {
	p.store.writeMu.Lock()
	defer p.store.writeMu.Unlock()

	result, err := p.store.db.ExecContext(ctx, "DELETE FROM prompts WHERE title = ?", title)
	if err != nil {
		return fmt.Errorf("deleting prompt: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting prompt: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
	}
	return nil
}

// write runs fn in a transaction with the current records loaded.
func (p *promptStore) write(ctx context.Context, fn func(*sql.Tx, []domain.PromptRecord) error) error {
	p.store.writeMu.Lock()
	defer p.store.writeMu.Unlock()

	tx, err := p.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := p.list(ctx, tx)
	if err != nil {
		return err
	}
	if err := fn(tx, existing); err != nil {
		return err
	}
	return tx.Commit()
}

func containsTitle(records []domain.PromptRecord, title string) bool {
	for i := range records {
		if records[i].Title == title {
			return true
		}
	}
	return false
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row scanner) (*domain.PromptRecord, error) {
	var (
		record            domain.PromptRecord
		created, modified string
	)
	if err := row.Scan(&record.Title, &record.Command, &record.Content, &record.Creator, &created, &modified); err != nil {
		return nil, err
	}
	record.Created = parseTime(created)
	record.Modified = parseTime(modified)
	return &record, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
