package internal

import (
	"encoding/json"
	"time"
)

// SessionRepository owns the session catalog and the favorites index. The
// in-memory catalog is authoritative for the current run; every mutation is
// written through to the store, and write failures degrade to warnings.
type SessionRepository struct {
	store     Store
	sessions  []SessionEntry // most-recent-first
	favorites map[string]struct{}
}

// NewSessionRepository loads the catalog and favorites index from the store.
// Corrupt payloads are treated as absent, never as errors.
func NewSessionRepository(store Store) *SessionRepository {
	r := &SessionRepository{
		store:     store,
		favorites: make(map[string]struct{}),
	}

	if raw, ok := store.Get(catalogKey); ok {
		var sessions []SessionEntry
		if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
			LogWarn("corrupt session catalog, starting empty", "error", &ParseError{Key: catalogKey, Err: err})
		} else {
			r.sessions = sessions
		}
	}

	// The favorite flag on the catalog row is authoritative; the persisted
	// set is rebuilt from it on load so the two cannot drift across runs.
	for _, entry := range r.sessions {
		if entry.IsFavorite {
			r.favorites[entry.ID] = struct{}{}
		}
	}

	return r
}

// ListAll returns the catalog rows, most recently touched first.
func (r *SessionRepository) ListAll() []SessionEntry {
	out := make([]SessionEntry, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Get returns the catalog row for a session id.
func (r *SessionRepository) Get(sessionID string) (SessionEntry, bool) {
	for _, entry := range r.sessions {
		if entry.ID == sessionID {
			return entry, true
		}
	}
	return SessionEntry{}, false
}

// Upsert replaces an existing catalog row in place or prepends a new one,
// then truncates the catalog to the most recent entries. Evicted rows keep
// their conversation bodies in the store; the healthcheck can collect them.
func (r *SessionRepository) Upsert(entry SessionEntry) {
	replaced := false
	for i := range r.sessions {
		if r.sessions[i].ID == entry.ID {
			r.sessions[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		r.sessions = append([]SessionEntry{entry}, r.sessions...)
	}

	if len(r.sessions) > maxCatalogEntries {
		for _, dropped := range r.sessions[maxCatalogEntries:] {
			delete(r.favorites, dropped.ID)
		}
		r.sessions = r.sessions[:maxCatalogEntries]
	}

	if entry.IsFavorite {
		r.favorites[entry.ID] = struct{}{}
	} else {
		delete(r.favorites, entry.ID)
	}

	r.persistCatalog()
}

// LoadConversation returns the persisted conversation body for a session.
// Missing or malformed payloads report absence; the caller falls back to an
// empty conversation.
func (r *SessionRepository) LoadConversation(sessionID string) (*Conversation, bool) {
	raw, ok := r.store.Get(ConversationKey(sessionID))
	if !ok {
		return nil, false
	}

	var conv Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		LogWarn("corrupt conversation payload, treating as absent",
			"error", &ParseError{Key: ConversationKey(sessionID), Err: err})
		return nil, false
	}
	return &conv, true
}

// SaveConversation persists the full conversation body under the session's
// key. Write failures are soft: logged, in-memory state advances regardless.
func (r *SessionRepository) SaveConversation(sessionID string, conv *Conversation) {
	data, err := json.Marshal(conv)
	if err != nil {
		LogWarn("failed to encode conversation", "session", sessionID, "error", err)
		return
	}
	if err := r.store.Set(ConversationKey(sessionID), string(data)); err != nil {
		LogWarn("failed to persist conversation", "session", sessionID, "error", err)
	}
}

// Clear deletes the conversation body only. The catalog row is left for the
// caller to remove or overwrite.
func (r *SessionRepository) Clear(sessionID string) {
	if err := r.store.Remove(ConversationKey(sessionID)); err != nil {
		LogWarn("failed to remove conversation", "session", sessionID, "error", err)
	}
}

// ClearAll removes every conversation body and the catalog itself. Folders
// are untouched. Local clearing always succeeds from the caller's view.
func (r *SessionRepository) ClearAll() {
	for _, entry := range r.sessions {
		r.Clear(entry.ID)
	}
	r.sessions = nil
	r.favorites = make(map[string]struct{})
	r.persistCatalog()
}

// ToggleFavorite flips a session's favorite flag and updates the favorites
// index in the same logical operation. Returns the new state.
func (r *SessionRepository) ToggleFavorite(sessionID string) (bool, error) {
	entry, ok := r.Get(sessionID)
	if !ok {
		return false, &ValidationError{Field: "session", Reason: "unknown session id " + sessionID}
	}

	entry.IsFavorite = !entry.IsFavorite
	entry.Timestamp = time.Now()
	r.Upsert(entry) // keeps flag and index in sync
	return entry.IsFavorite, nil
}

// Favorites returns the ids of all favorited sessions.
func (r *SessionRepository) Favorites() []string {
	ids := make([]string, 0, len(r.favorites))
	for _, entry := range r.sessions {
		if _, ok := r.favorites[entry.ID]; ok {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// IsFavorite reports membership in the favorites index.
func (r *SessionRepository) IsFavorite(sessionID string) bool {
	_, ok := r.favorites[sessionID]
	return ok
}

// SetFolder moves a session into a folder (or unfiles it with an empty id).
func (r *SessionRepository) SetFolder(sessionID, folderID string) error {
	entry, ok := r.Get(sessionID)
	if !ok {
		return &ValidationError{Field: "session", Reason: "unknown session id " + sessionID}
	}
	entry.FolderID = folderID
	entry.Timestamp = time.Now()
	r.Upsert(entry)
	return nil
}

// SessionsInFolder returns the catalog rows filed under a folder. This is a
// derived query over the catalog; folder membership is never stored twice.
func (r *SessionRepository) SessionsInFolder(folderID string) []SessionEntry {
	var out []SessionEntry
	for _, entry := range r.sessions {
		if entry.FolderID == folderID {
			out = append(out, entry)
		}
	}
	return out
}

// clearFolderRefs unfiles every session referencing a deleted folder. The
// sessions themselves are never deleted by folder deletion.
func (r *SessionRepository) clearFolderRefs(folderID string) {
	changed := false
	for i := range r.sessions {
		if r.sessions[i].FolderID == folderID {
			r.sessions[i].FolderID = ""
			changed = true
		}
	}
	if changed {
		r.persistCatalog()
	}
}

func (r *SessionRepository) persistCatalog() {
	r.persistFavorites()

	data, err := json.Marshal(r.sessions)
	if err != nil {
		LogWarn("failed to encode session catalog", "error", err)
		return
	}
	if err := r.store.Set(catalogKey, string(data)); err != nil {
		LogWarn("failed to persist session catalog", "error", err)
	}
}

func (r *SessionRepository) persistFavorites() {
	ids := make([]string, 0, len(r.favorites))
	for id := range r.favorites {
		ids = append(ids, id)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		LogWarn("failed to encode favorites index", "error", err)
		return
	}
	if err := r.store.Set(favoritesKey, string(data)); err != nil {
		LogWarn("failed to persist favorites index", "error", err)
	}
}
