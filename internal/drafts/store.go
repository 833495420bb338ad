// Package drafts persists unfinished edit settings in SQLite so an edit
// session can be resumed later.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
	"github.com/ironsheep/photo-tools-mcp/internal/session"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var (
	// ErrDraftNotFound indicates that no draft exists for an id.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrInvalidDraftID indicates an empty draft id.
	ErrInvalidDraftID = errors.New("invalid draft id")
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS drafts (
	id         TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_drafts_updated_at ON drafts(updated_at);
`

// Draft is a stored record with its bookkeeping timestamps.
type Draft struct {
	ID        string        `json:"id"`
	Record    adjust.Record `json:"record"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Store is a SQLite-backed draft store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ session.DraftStore = (*Store)(nil)

// Open opens or creates the draft database at path, creating parent
// directories as needed. MemoryPath opens a throwaway database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("drafts: db path cannot be empty")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("drafts: create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("drafts: open db: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("drafts: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("drafts: create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes rec under id, replacing any previous record but keeping the
// original creation time.
func (s *Store) Save(ctx context.Context, id string, rec adjust.Record) error {
	if err := validateID(id); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("drafts: encode record: %w", err)
	}
	now := s.timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, record, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		id, string(data), now, now)
	if err != nil {
		return fmt.Errorf("drafts: save %s: %w", id, err)
	}
	return nil
}

// Load returns the record stored under id. A missing draft is a
// KindNotFound error wrapping ErrDraftNotFound.
func (s *Store) Load(ctx context.Context, id string) (adjust.Record, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return adjust.Record{}, err
	}
	return d.Record, nil
}

// Get returns the draft stored under id.
func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, record, created_at, updated_at FROM drafts WHERE id = ?`, id)
	d, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("load", "draft "+id, ErrDraftNotFound)
		}
		return nil, fmt.Errorf("drafts: load %s: %w", id, err)
	}
	return d, nil
}

// Delete removes the draft stored under id. A missing draft is a
// KindNotFound error wrapping ErrDraftNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("drafts: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("drafts: delete %s: %w", id, err)
	}
	if n == 0 {
		return errs.NotFound("delete", "draft "+id, ErrDraftNotFound)
	}
	return nil
}

// List returns every draft, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record, created_at, updated_at FROM drafts ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("drafts: list: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("drafts: list: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("drafts: list: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(sc scanner) (*Draft, error) {
	var (
		d                Draft
		data             string
		created, updated string
	)
	if err := sc.Scan(&d.ID, &data, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &d.Record); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", d.ID, err)
	}
	var err error
	if d.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at for %s: %w", d.ID, err)
	}
	if d.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at for %s: %w", d.ID, err)
	}
	return &d, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.Validation("drafts", ErrInvalidDraftID.Error())
	}
	return nil
}
