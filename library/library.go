// Package library persists finished artworks in an SQLite database.
//
// The store keeps the encoded image bytes alongside a label, the prompt that
// produced it, free-form tags and a favorite flag. Listing is newest first.
//
//	lib, err := library.Open("artboard.db")
//	if err != nil { ... }
//	defer lib.Close()
//	rec, err := lib.Save(ctx, library.Record{Image: pngBytes, Tags: []string{"creative"}})
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gogpu/artboard"
)

// likeEscaper makes a search term match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("library: record not found")

// Schema creates the library tables. Safe to run more than once.
const Schema = `
CREATE TABLE IF NOT EXISTS artworks (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL DEFAULT '',
	prompt     TEXT NOT NULL DEFAULT '',
	mime       TEXT NOT NULL DEFAULT 'image/png',
	image      BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	favorite   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_artworks_created ON artworks(created_at DESC);

CREATE TABLE IF NOT EXISTS artwork_tags (
	artwork_id TEXT NOT NULL REFERENCES artworks(id) ON DELETE CASCADE,
	tag        TEXT NOT NULL,
	PRIMARY KEY (artwork_id, tag)
);
CREATE INDEX IF NOT EXISTS idx_artwork_tags_tag ON artwork_tags(tag);
`

// Record is one stored artwork.
type Record struct {
	ID        string
	Label     string
	Prompt    string
	MIME      string
	Image     []byte
	Tags      []string
	CreatedAt time.Time
	Favorite  bool
}

// Query narrows List. The zero value lists everything.
type Query struct {
	// Search matches label or prompt, case-insensitively.
	Search string
	// Tag keeps records carrying this tag.
	Tag string
	// Favorites keeps favorite records only.
	Favorites bool
	// Limit caps the result count; 0 means no cap.
	Limit int
}

type config struct {
	busyTimeout int
	synchronous string
	mkdirAll    bool
	now         func() time.Time
}

// Option customises Open.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous. Default: "NORMAL".
func WithSynchronous(mode string) Option { return func(c *config) { c.synchronous = mode } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithClock replaces time.Now for records saved without a timestamp.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

// Store is an SQLite-backed artwork library. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the library database at path.
// Use ":memory:" for a throwaway store.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := config{busyTimeout: 10_000, synchronous: "NORMAL", now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("library: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("library: open: %w", err)
	}
	if path == ":memory:" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous),
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("library: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("library: schema: %w", err)
	}

	return &Store{db: db, now: cfg.now}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores rec and returns it with ID and CreatedAt filled in when they
// were empty. Duplicate tags are dropped.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if len(rec.Image) == 0 {
		return Record{}, artboard.ErrEmptyAsset
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if rec.MIME == "" {
		rec.MIME = "image/png"
	}
	rec.Tags = normalizeTags(rec.Tags)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("library: save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO artworks (id, label, prompt, mime, image, created_at, favorite) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Label, rec.Prompt, rec.MIME, rec.Image, rec.CreatedAt.UnixMilli(), boolInt(rec.Favorite))
	if err != nil {
		return Record{}, fmt.Errorf("library: save %s: %w", rec.ID, err)
	}
	for _, tag := range rec.Tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO artwork_tags (artwork_id, tag) VALUES (?, ?)`, rec.ID, tag); err != nil {
			return Record{}, fmt.Errorf("library: save tag %q: %w", tag, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("library: save: %w", err)
	}

	artboard.Logger().Info("library: saved",
		slog.String("id", rec.ID),
		slog.String("label", rec.Label),
		slog.Int("bytes", len(rec.Image)))
	return rec, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, prompt, mime, image, created_at, favorite FROM artworks WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("library: get %s: %w", id, err)
	}
	tags, err := s.tags(ctx, id)
	if err != nil {
		return Record{}, err
	}
	rec.Tags = tags
	return rec, nil
}

// List returns the records matching q, newest first.
func (s *Store) List(ctx context.Context, q Query) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if q.Favorites {
		where = append(where, "a.favorite = 1")
	}
	if q.Search != "" {
		where = append(where, `(LOWER(a.label) LIKE ? ESCAPE '\' OR LOWER(a.prompt) LIKE ? ESCAPE '\')`)
		pat := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		args = append(args, pat, pat)
	}
	if q.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM artwork_tags t WHERE t.artwork_id = a.id AND t.tag = ?)")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Tag)))
	}

	query := `SELECT a.id, a.label, a.prompt, a.mime, a.image, a.created_at, a.favorite FROM artworks a`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.created_at DESC, a.rowid DESC"
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("library: list: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("library: list: %w", err)
	}
	rows.Close()

	for i := range out {
		tags, err := s.tags(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Tags = tags
	}
	return out, nil
}

// ByTag lists the records carrying tag, newest first.
func (s *Store) ByTag(ctx context.Context, tag string) ([]Record, error) {
	return s.List(ctx, Query{Tag: tag})
}

// Remove deletes the record with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("library: remove %s: %w", id, err)
	}
	defer tx.Rollback() //nolint:errcheck

	// foreign_keys is per connection; do not rely on the cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM artwork_tags WHERE artwork_id = ?`, id); err != nil {
		return fmt.Errorf("library: remove %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM artworks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("library: remove %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("library: remove %s: %w", id, err)
	}
	artboard.Logger().Info("library: removed", slog.String("id", id))
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var fav int
	err := s.db.QueryRowContext(ctx,
		`UPDATE artworks SET favorite = 1 - favorite WHERE id = ? RETURNING favorite`, id).Scan(&fav)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("library: favorite %s: %w", id, err)
	}
	return fav == 1, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artworks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("library: count: %w", err)
	}
	return n, nil
}

func (s *Store) tags(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM artwork_tags WHERE artwork_id = ? ORDER BY tag`, id)
	if err != nil {
		return nil, fmt.Errorf("library: tags %s: %w", id, err)
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("library: tags %s: %w", id, err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec     Record
		created int64
		fav     int
	)
	if err := sc.Scan(&rec.ID, &rec.Label, &rec.Prompt, &rec.MIME, &rec.Image, &created, &fav); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.UnixMilli(created)
	rec.Favorite = fav == 1
	return rec, nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := tags[:0:0]
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
