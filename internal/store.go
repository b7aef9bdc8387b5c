package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Persisted key layout. One entry per key; conversation bodies are scoped
// under a per-session prefix, everything else is a single global key.
const (
	catalogKey        = "chat_sessions"
	foldersKey        = "chat_folders"
	favoritesKey      = "favorite_chats"
	feedbackKey       = "message_feedback"
	conversationScope = "conversation:"
)

// ConversationKey returns the store key holding a session's conversation body.
func ConversationKey(sessionID string) string {
	return conversationScope + sessionID
}

// Store is the synchronous key/value persistence boundary. All repositories
// read and write through it only. A failed Set must leave the prior value
// intact; callers treat write failures as soft warnings.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// SQLiteStore persists key/value pairs in a single chatKV table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenDatabase opens (or creates) the chat database and ensures the chatKV
// table exists.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS chatKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create chatKV table: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a store over an open chat database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the value stored under key, or false when the key is absent.
// Read errors are logged and reported as absence; the caller falls back to
// its in-memory state.
func (s *SQLiteStore) Get(key string) (string, bool) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM chatKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		LogWarn("store read failed", "key", key, "error", err)
		return "", false
	}
	if !value.Valid {
		return "", false
	}
	return value.String, true
}

// Set replaces the value stored under key. The upsert either fully replaces
// the prior value or fails without mutating it.
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO chatKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Remove deletes the value stored under key. Removing an absent key is not
// an error.
func (s *SQLiteStore) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM chatKV WHERE key = ?", key); err != nil {
		return &StorageError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Keys returns all stored keys matching the given prefix. Used by the
// healthcheck to find conversation bodies orphaned by catalog eviction.
func (s *SQLiteStore) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM chatKV WHERE key LIKE ? AND value IS NOT NULL", prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return keys, nil
}
