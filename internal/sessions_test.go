package internal

import (
	"fmt"
	"testing"
	"time"

	"github.com/egazette/gazette-chat/testutil"
)

func TestSessionRepository_LoadsSeededCatalog(t *testing.T) {
	db := testutil.CreateTestDB(t)
	defer db.Close()

	repo := NewSessionRepository(NewSQLiteStore(db))
	entries := repo.ListAll()
	if len(entries) != 2 {
		t.Fatalf("ListAll() returned %d entries, want 2", len(entries))
	}
	if entries[0].ID != "sess-1" {
		t.Errorf("first entry = %q, want most recent first (sess-1)", entries[0].ID)
	}
	if !repo.IsFavorite("sess-1") {
		t.Error("favorites index missing sess-1 despite is_favorite flag")
	}
}

func TestSessionRepository_CorruptCatalogIsAbsent(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	testutil.InsertKV(t, db, "chat_sessions", "not valid json")

	repo := NewSessionRepository(NewSQLiteStore(db))
	if len(repo.ListAll()) != 0 {
		t.Error("corrupt catalog should load as empty")
	}
}

func TestSessionRepository_UpsertPrependsAndReplaces(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	repo := NewSessionRepository(NewSQLiteStore(db))

	repo.Upsert(SessionEntry{ID: "a", Title: "first"})
	repo.Upsert(SessionEntry{ID: "b", Title: "second"})

	entries := repo.ListAll()
	if len(entries) != 2 || entries[0].ID != "b" {
		t.Fatalf("new entries should prepend, got order %v", entries)
	}

	repo.Upsert(SessionEntry{ID: "a", Title: "renamed"})
	entries = repo.ListAll()
	if len(entries) != 2 {
		t.Fatalf("replace should not grow catalog, got %d entries", len(entries))
	}
	if entries[1].ID != "a" || entries[1].Title != "renamed" {
		t.Errorf("existing entry should be replaced in place, got %+v", entries[1])
	}
}

func TestSessionRepository_CatalogCap(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	repo := NewSessionRepository(NewSQLiteStore(db))

	for i := 0; i < 105; i++ {
		repo.Upsert(SessionEntry{ID: fmt.Sprintf("sess-%d", i)})
	}

	entries := repo.ListAll()
	if len(entries) != 100 {
		t.Fatalf("catalog holds %d entries, want 100", len(entries))
	}
	if entries[0].ID != "sess-104" {
		t.Errorf("newest entry = %q, want sess-104", entries[0].ID)
	}
	if _, ok := repo.Get("sess-4"); ok {
		t.Error("oldest entries beyond the cap should be dropped")
	}
	if _, ok := repo.Get("sess-5"); !ok {
		t.Error("the 100 most recent entries should be retained")
	}
}

func TestSessionRepository_SaveLoadConversation(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	repo := NewSessionRepository(NewSQLiteStore(db))

	conv := &Conversation{
		Messages: []Message{
			{Role: RoleUser, Content: "hello", Timestamp: time.Now()},
		},
		History: []ChatTurn{{Role: "user", Content: "hello"}},
		Title:   "Greeting",
	}
	repo.SaveConversation("sess-x", conv)

	loaded, ok := repo.LoadConversation("sess-x")
	if !ok {
		t.Fatal("LoadConversation() reported absent after save")
	}
	if len(loaded.Messages) != 1 || loaded.Messages[0].Content != "hello" {
		t.Errorf("loaded conversation = %+v", loaded)
	}
	if loaded.Title != "Greeting" {
		t.Errorf("loaded title = %q, want Greeting", loaded.Title)
	}
}

func TestSessionRepository_LoadConversationCorrupt(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	testutil.InsertKV(t, db, "conversation:bad", "{truncated")

	repo := NewSessionRepository(NewSQLiteStore(db))
	if _, ok := repo.LoadConversation("bad"); ok {
		t.Error("corrupt conversation should load as absent")
	}
}

func TestSessionRepository_ClearRemovesBodyOnly(t *testing.T) {
	db := testutil.CreateTestDB(t)
	defer db.Close()
	repo := NewSessionRepository(NewSQLiteStore(db))

	repo.Clear("sess-1")

	if _, ok := repo.LoadConversation("sess-1"); ok {
		t.Error("conversation body should be gone after Clear()")
	}
	if _, ok := repo.Get("sess-1"); !ok {
		t.Error("catalog row should survive Clear()")
	}
}

func TestSessionRepository_ToggleFavorite(t *testing.T) {
	db := testutil.CreateTestDB(t)
	defer db.Close()
	store := NewSQLiteStore(db)
	repo := NewSessionRepository(store)

	favorite, err := repo.ToggleFavorite("sess-2")
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !favorite {
		t.Error("ToggleFavorite() should flip sess-2 to favorite")
	}

	// Flag and index must agree after every toggle, including across reloads.
	entry, _ := repo.Get("sess-2")
	if !entry.IsFavorite || !repo.IsFavorite("sess-2") {
		t.Error("favorite flag and index out of sync after toggle")
	}

	reloaded := NewSessionRepository(store)
	entry, _ = reloaded.Get("sess-2")
	if !entry.IsFavorite || !reloaded.IsFavorite("sess-2") {
		t.Error("favorite flag and index out of sync after reload")
	}

	favorite, err = repo.ToggleFavorite("sess-2")
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if favorite {
		t.Error("second toggle should clear the favorite")
	}
	if repo.IsFavorite("sess-2") {
		t.Error("favorites index should drop sess-2 after second toggle")
	}
}

func TestSessionRepository_ToggleFavoriteUnknown(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	repo := NewSessionRepository(NewSQLiteStore(db))

	if _, err := repo.ToggleFavorite("ghost"); err == nil {
		t.Error("ToggleFavorite() of unknown session should fail")
	}
}

func TestSessionRepository_SessionsInFolder(t *testing.T) {
	db := testutil.CreateTestDB(t)
	defer db.Close()
	repo := NewSessionRepository(NewSQLiteStore(db))

	filed := repo.SessionsInFolder("folder-1")
	if len(filed) != 1 || filed[0].ID != "sess-2" {
		t.Errorf("SessionsInFolder() = %v, want [sess-2]", filed)
	}
}

func TestSessionRepository_ClearAll(t *testing.T) {
	db := testutil.CreateTestDB(t)
	defer db.Close()
	store := NewSQLiteStore(db)
	repo := NewSessionRepository(store)

	repo.ClearAll()

	if len(repo.ListAll()) != 0 {
		t.Error("catalog should be empty after ClearAll()")
	}
	if _, ok := repo.LoadConversation("sess-1"); ok {
		t.Error("conversation bodies should be removed by ClearAll()")
	}

	reloaded := NewSessionRepository(store)
	if len(reloaded.ListAll()) != 0 {
		t.Error("empty catalog should persist across reload")
	}
}

func TestSessionRepository_PersistsAcrossReload(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	store := NewSQLiteStore(db)

	repo := NewSessionRepository(store)
	repo.Upsert(SessionEntry{ID: "a", Title: "kept", MessageCount: 3})

	reloaded := NewSessionRepository(store)
	entry, ok := reloaded.Get("a")
	if !ok {
		t.Fatal("catalog entry lost across reload")
	}
	if entry.Title != "kept" || entry.MessageCount != 3 {
		t.Errorf("reloaded entry = %+v", entry)
	}
}
