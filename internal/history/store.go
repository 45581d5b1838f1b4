// Package history keeps the "recently watched" list in a local SQLite file.
package history

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/showrunner/internal/media"
)

// ErrNotFound is returned by Get when no entry exists for the id.
var ErrNotFound = stdErrors.New("history entry not found")

const schema = `CREATE TABLE IF NOT EXISTS history (
	imdb_id      TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	year         TEXT NOT NULL DEFAULT '',
	kind         TEXT NOT NULL DEFAULT '',
	season       INTEGER,
	episode      INTEGER,
	stream_link  TEXT NOT NULL DEFAULT '',
	last_watched INTEGER NOT NULL
)`

// Entry is one watched show or movie. Season and Episode are nil for movies.
type Entry struct {
	IMDbID      string     `json:"imdb_id" yaml:"imdb_id"`
	Title       string     `json:"title" yaml:"title"`
	Year        string     `json:"year,omitempty" yaml:"year,omitempty"`
	Kind        media.Kind `json:"type,omitempty" yaml:"type,omitempty"`
	Season      *int       `json:"season,omitempty" yaml:"season,omitempty"`
	Episode     *int       `json:"episode,omitempty" yaml:"episode,omitempty"`
	StreamLink  string     `json:"stream_link,omitempty" yaml:"stream_link,omitempty"`
	LastWatched time.Time  `json:"last_watched" yaml:"last_watched"`
}

// Store is the SQLite-backed history.
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open opens (and if needed creates) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases and writes consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &Store{db: db, dbPath: dbPath, now: time.Now}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Record inserts or replaces the entry for e.IMDbID and stamps LastWatched
// with the current time.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.IMDbID == "" {
		return Entry{}, stdErrors.New("history entry needs an IMDb id")
	}
	e.LastWatched = s.now().UTC()

	_, err := s.db.ExecContext(ctx, `INSERT INTO history
		(imdb_id, title, year, kind, season, episode, stream_link, last_watched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(imdb_id) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			kind = excluded.kind,
			season = excluded.season,
			episode = excluded.episode,
			stream_link = excluded.stream_link,
			last_watched = excluded.last_watched`,
		e.IMDbID, e.Title, e.Year, string(e.Kind), nullInt(e.Season), nullInt(e.Episode), e.StreamLink, e.LastWatched.UnixMilli(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record %s: %w", e.IMDbID, err)
	}
	return e, nil
}

// Recent returns every entry, most recently watched first.
func (s *Store) Recent(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT imdb_id, title, year, kind, season, episode, stream_link, last_watched
		FROM history ORDER BY last_watched DESC, imdb_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Get returns the entry for id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT imdb_id, title, year, kind, season, episode, stream_link, last_watched
		FROM history WHERE imdb_id = ?`, id)
	e, err := scanEntry(row)
	if stdErrors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// Delete removes the entry for id. Deleting a missing entry is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE imdb_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e               Entry
		kind            string
		season, episode sql.NullInt64
		watched         int64
	)
	if err := row.Scan(&e.IMDbID, &e.Title, &e.Year, &kind, &season, &episode, &e.StreamLink, &watched); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("failed to scan history entry: %w", err)
	}
	e.Kind = media.Kind(kind)
	e.Season = intPtr(season)
	e.Episode = intPtr(episode)
	e.LastWatched = time.UnixMilli(watched).UTC()
	return e, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
