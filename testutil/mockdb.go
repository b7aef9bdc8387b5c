package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory chat database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS chatKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create chatKV table: %v", err)
	}

	return db
}

// InsertKV inserts a key/value pair into the chatKV table
func InsertKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT OR REPLACE INTO chatKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}

// CreateTestDB creates a chat database seeded with sample data: two catalog
// sessions (one favorited, one filed in a folder), their conversation
// bodies, one folder, and a feedback map.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	seed := []struct {
		key   string
		value string
	}{
		{
			key: "chat_sessions",
			value: `[
				{"id":"sess-1","title":"Change of name entries","timestamp":"2026-08-30T10:00:00Z","message_count":2,"is_favorite":true},
				{"id":"sess-2","title":"Appointment notices 2024","timestamp":"2026-08-29T09:00:00Z","message_count":2,"folder_id":"folder-1","is_favorite":false}
			]`,
		},
		{
			key:   "chat_folders",
			value: `[{"id":"folder-1","name":"Research","created_at":"2026-08-28T08:00:00Z"}]`,
		},
		{
			key:   "favorite_chats",
			value: `["sess-1"]`,
		},
		{
			key:   "message_feedback",
			value: `{"sess-1":{"1":"like"}}`,
		},
		{
			key: "conversation:sess-1",
			value: `{
				"messages":[
					{"role":"user","content":"Find change of name entries for Accra","timestamp":"2026-08-30T10:00:00Z"},
					{"role":"assistant","content":"Found 2 entries","timestamp":"2026-08-30T10:00:05Z"}
				],
				"chat_history":[
					{"role":"user","content":"Find change of name entries for Accra"},
					{"role":"assistant","content":"Found 2 entries"}
				],
				"search_results":[{"type":"change_of_name","name":"Kofi Mensah","gazette_no":"42","date":"2021-06-11"}],
				"title":"Change of name entries"
			}`,
		},
		{
			key: "conversation:sess-2",
			value: `{
				"messages":[
					{"role":"user","content":"List appointment notices from 2024","timestamp":"2026-08-29T09:00:00Z"},
					{"role":"assistant","content":"Here are the notices","timestamp":"2026-08-29T09:00:04Z"}
				],
				"chat_history":[
					{"role":"user","content":"List appointment notices from 2024"},
					{"role":"assistant","content":"Here are the notices"}
				],
				"title":"Appointment notices 2024"
			}`,
		},
	}

	for _, kv := range seed {
		InsertKV(t, db, kv.key, kv.value)
	}

	return db
}
