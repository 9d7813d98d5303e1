package cardnews

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding accounts, publish history,
// and uploaded background metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS accounts (
    name TEXT PRIMARY KEY,
    ig_user_id TEXT NOT NULL,
    access_token TEXT NOT NULL,
    token_expiry TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS publishes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    account TEXT NOT NULL,
    caption TEXT NOT NULL,
    status TEXT NOT NULL,
    media_id TEXT NOT NULL DEFAULT '',
    container_id TEXT NOT NULL DEFAULT '',
    image_count INTEGER NOT NULL DEFAULT 0,
    scheduled_at TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS backgrounds (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// ListAccounts returns all accounts ordered by name.
func (s *Store) ListAccounts() ([]Account, error) {
	rows, err := s.db.Query(`SELECT name, ig_user_id, access_token, token_expiry FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount returns a single account by name.
func (s *Store) GetAccount(name string) (Account, error) {
	row := s.db.QueryRow(`SELECT name, ig_user_id, access_token, token_expiry FROM accounts WHERE name = ?`, name)
	return scanAccount(row)
}

// SaveAccount upserts an account by name.
func (s *Store) SaveAccount(a Account) error {
	expiry := ""
	if !a.TokenExpiry.IsZero() {
		expiry = a.TokenExpiry.UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO accounts (name, ig_user_id, access_token, token_expiry) VALUES (?, ?, ?, ?)`,
		a.Name, a.IGUserID, a.AccessToken, expiry)
	return err
}

// DeleteAccount removes an account by name.
func (s *Store) DeleteAccount(name string) error {
	_, err := s.db.Exec(`DELETE FROM accounts WHERE name = ?`, name)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var a Account
	var expiry string
	if err := row.Scan(&a.Name, &a.IGUserID, &a.AccessToken, &expiry); err != nil {
		return Account{}, err
	}
	if expiry != "" {
		if t, err := time.Parse(time.RFC3339, expiry); err == nil {
			a.TokenExpiry = t
		}
	}
	return a, nil
}

// RecordPublish appends one publish attempt to the history.
func (s *Store) RecordPublish(r PublishRecord) error {
	scheduled := ""
	if !r.ScheduledAt.IsZero() {
		scheduled = r.ScheduledAt.UTC().Format(time.RFC3339)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO publishes (account, caption, status, media_id, container_id, image_count, scheduled_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Account, r.Caption, r.Status, r.MediaID, r.ContainerID, r.ImageCount, scheduled, created.UTC().Format(time.RFC3339))
	return err
}

// ListPublishes returns the most recent publish records, newest first.
func (s *Store) ListPublishes(limit int) ([]PublishRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, account, caption, status, media_id, container_id, image_count, scheduled_at, created_at FROM publishes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PublishRecord
	for rows.Next() {
		var r PublishRecord
		var scheduled, created string
		if err := rows.Scan(&r.ID, &r.Account, &r.Caption, &r.Status, &r.MediaID, &r.ContainerID, &r.ImageCount, &scheduled, &created); err != nil {
			return nil, err
		}
		if scheduled != "" {
			if t, err := time.Parse(time.RFC3339, scheduled); err == nil {
				r.ScheduledAt = t
			}
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveBackground stores metadata for an uploaded background photo.
func (s *Store) SaveBackground(b Background) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO backgrounds (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		b.Filename, b.OriginalName, b.Width, b.Height, b.Size, b.UploadedAt)
	return err
}

// ListBackgrounds returns uploaded backgrounds, newest first.
func (s *Store) ListBackgrounds() ([]Background, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM backgrounds ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backgrounds []Background
	for rows.Next() {
		var b Background
		if err := rows.Scan(&b.Filename, &b.OriginalName, &b.Width, &b.Height, &b.Size, &b.UploadedAt); err != nil {
			return nil, err
		}
		backgrounds = append(backgrounds, b)
	}
	return backgrounds, rows.Err()
}

// DeleteBackground removes background metadata by filename.
func (s *Store) DeleteBackground(filename string) error {
	_, err := s.db.Exec(`DELETE FROM backgrounds WHERE filename = ?`, filename)
	return err
}
