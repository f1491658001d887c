package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/loganmanery/credvault/pkg/models"
)

// SQLiteStorage implements StorageService using SQLite. It keeps no open
// connection: every call opens the file, runs its statement and closes it.
type SQLiteStorage struct {
	mu     sync.Mutex
	dbPath string
}

// newSQLiteStorage creates a new SQLite storage service
func newSQLiteStorage(dbPath string) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath: dbPath,
	}
}

// dsn returns the connection string for the database file. The path is
// made absolute and percent-encoded so '?', '#' and '%' stay part of the
// file name.
func (s *SQLiteStorage) dsn() string {
	path := s.dbPath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := url.URL{
		Scheme:   "file",
		Path:     path,
		RawQuery: "_busy_timeout=5000&_txlock=immediate",
	}
	return u.String()
}

// withDB opens a handle scoped to fn and releases it on every path
func (s *SQLiteStorage) withDB(fn func(db *sql.DB) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := sql.Open(driverName, s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
	}()

	return fn(db)
}

// GetMeta retrieves a metadata value
func (s *SQLiteStorage) GetMeta(key string) ([]byte, error) {
	var value []byte
	err := s.withDB(func(db *sql.DB) error {
		return db.QueryRow("SELECT value FROM vault_meta WHERE key = ?", key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meta %q: %w", key, err)
	}
	return value, nil
}

// InitMeta stores value unless key exists, then returns the stored value
func (s *SQLiteStorage) InitMeta(key string, value []byte) ([]byte, error) {
	var stored []byte
	err := s.withDB(func(db *sql.DB) error {
		if _, err := db.Exec("INSERT OR IGNORE INTO vault_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return err
		}
		return db.QueryRow("SELECT value FROM vault_meta WHERE key = ?", key).Scan(&stored)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init meta %q: %w", key, err)
	}
	return stored, nil
}

// AddCredential adds a new credential entry
func (s *SQLiteStorage) AddCredential(entry *models.Credential) (int64, error) {
	var id int64
	err := s.withDB(func(db *sql.DB) error {
		result, err := db.Exec(`
			INSERT INTO credentials (website, username, password, created_at, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`, entry.Website, entry.Username, entry.PasswordEnc)
		if err != nil {
			return err
		}

		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add credential: %w", err)
	}
	return id, nil
}

// GetCredential retrieves a credential entry by ID
func (s *SQLiteStorage) GetCredential(id int64) (*models.Credential, error) {
	var entry models.Credential
	err := s.withDB(func(db *sql.DB) error {
		return db.QueryRow(`
			SELECT id, website, username, password, created_at, updated_at
			FROM credentials WHERE id = ?
		`, id).Scan(&entry.ID, &entry.Website, &entry.Username, &entry.PasswordEnc,
			&entry.CreatedAt, &entry.UpdatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("credential %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential %d: %w", id, err)
	}
	return &entry, nil
}

// ListCredentials retrieves all credential entries (without ciphertext)
func (s *SQLiteStorage) ListCredentials() ([]models.Summary, error) {
	entries, err := s.querySummaries(`
		SELECT id, website, username, created_at, updated_at
		FROM credentials ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return entries, nil
}

// SearchCredentials searches website and username, ascending by id
func (s *SQLiteStorage) SearchCredentials(term string) ([]models.Summary, error) {
	if term == "" {
		return s.ListCredentials()
	}

	entries, err := s.querySummaries(`
		SELECT id, website, username, created_at, updated_at
		FROM credentials
		WHERE contains_fold(website, ?1) OR contains_fold(username, ?1)
		ORDER BY id ASC
	`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search credentials: %w", err)
	}
	return entries, nil
}

// querySummaries runs a listing query and scans the summary columns
func (s *SQLiteStorage) querySummaries(query string, args ...any) ([]models.Summary, error) {
	entries := []models.Summary{}
	err := s.withDB(func(db *sql.DB) error {
		rows, err := db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var entry models.Summary
			if err := rows.Scan(&entry.ID, &entry.Website, &entry.Username,
				&entry.CreatedAt, &entry.UpdatedAt); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateCredential updates an existing credential entry
func (s *SQLiteStorage) UpdateCredential(entry *models.Credential) error {
	err := s.withDB(func(db *sql.DB) error {
		var result sql.Result
		var err error
		if entry.PasswordEnc == "" {
			result, err = db.Exec(`
				UPDATE credentials
				SET website = ?, username = ?, updated_at = CURRENT_TIMESTAMP
				WHERE id = ?
			`, entry.Website, entry.Username, entry.ID)
		} else {
			result, err = db.Exec(`
				UPDATE credentials
				SET website = ?, username = ?, password = ?, updated_at = CURRENT_TIMESTAMP
				WHERE id = ?
			`, entry.Website, entry.Username, entry.PasswordEnc, entry.ID)
		}
		if err != nil {
			return err
		}
		return requireAffected(result)
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("credential %d: %w", entry.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update credential %d: %w", entry.ID, err)
	}
	return nil
}

// DeleteCredential deletes a credential entry
func (s *SQLiteStorage) DeleteCredential(id int64) error {
	err := s.withDB(func(db *sql.DB) error {
		result, err := db.Exec("DELETE FROM credentials WHERE id = ?", id)
		if err != nil {
			return err
		}
		return requireAffected(result)
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("credential %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete credential %d: %w", id, err)
	}
	return nil
}

// requireAffected maps a zero-row write to ErrNotFound
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
