package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry describes one hard link created by the organizer.
type Entry struct {
	Source      string
	Destination string
	Kind        string
	Title       string
	Year        int
	Season      int
	Episode     int
	Inode       uint64
	Device      uint64
	LinkedAt    time.Time
}

// Recorder persists created links.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Forgetter drops entries for staging files that no longer exist.
type Forgetter interface {
	Forget(ctx context.Context, source string) error
}

// Store records created links in SQLite. It is a cache for history output and
// never decides whether a staging file is safe to delete.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the index database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record upserts an entry keyed by destination. Relinking a destination
// replaces its previous row.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	linkedAt := entry.LinkedAt
	if linkedAt.IsZero() {
		linkedAt = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO links (
            source_path, destination_path, kind, title, year, season, episode,
            inode, device, linked_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(destination_path) DO UPDATE SET
            source_path = excluded.source_path,
            kind = excluded.kind,
            title = excluded.title,
            year = excluded.year,
            season = excluded.season,
            episode = excluded.episode,
            inode = excluded.inode,
            device = excluded.device,
            linked_at = excluded.linked_at`,
		entry.Source,
		entry.Destination,
		entry.Kind,
		entry.Title,
		nullableInt(entry.Year),
		nullableInt(entry.Season),
		nullableInt(entry.Episode),
		int64(entry.Inode),
		int64(entry.Device),
		linkedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record link: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT source_path, destination_path, kind, title, year, season, episode,
            inode, device, linked_at
        FROM links ORDER BY linked_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded links.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM links").Scan(&count); err != nil {
		return 0, fmt.Errorf("count links: %w", err)
	}
	return count, nil
}

// Forget removes every entry whose source is the given staging path.
func (s *Store) Forget(ctx context.Context, source string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM links WHERE source_path = ?", source); err != nil {
		return fmt.Errorf("forget %s: %w", source, err)
	}
	return nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry                 Entry
		year, season, episode sql.NullInt64
		inode, device         int64
		linkedAt              string
	)
	if err := rows.Scan(
		&entry.Source,
		&entry.Destination,
		&entry.Kind,
		&entry.Title,
		&year,
		&season,
		&episode,
		&inode,
		&device,
		&linkedAt,
	); err != nil {
		return Entry{}, fmt.Errorf("scan link: %w", err)
	}
	entry.Year = int(year.Int64)
	entry.Season = int(season.Int64)
	entry.Episode = int(episode.Int64)
	entry.Inode = uint64(inode)
	entry.Device = uint64(device)
	if ts, err := time.Parse(time.RFC3339Nano, linkedAt); err == nil {
		entry.LinkedAt = ts
	}
	return entry, nil
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}
