package internal

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FolderRepository owns the named folders. Folders are pure organizational
// metadata; deleting one never touches conversation content.
type FolderRepository struct {
	store    Store
	sessions *SessionRepository
	folders  []Folder
}

// NewFolderRepository loads the folder list from the store. A corrupt list
// is treated as absent.
func NewFolderRepository(store Store, sessions *SessionRepository) *FolderRepository {
	r := &FolderRepository{store: store, sessions: sessions}

	if raw, ok := store.Get(foldersKey); ok {
		var folders []Folder
		if err := json.Unmarshal([]byte(raw), &folders); err != nil {
			LogWarn("corrupt folder list, starting empty", "error", &ParseError{Key: foldersKey, Err: err})
		} else {
			r.folders = folders
		}
	}

	return r
}

// Create adds a new folder. The name must not trim to empty.
func (r *FolderRepository) Create(name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, &ValidationError{Field: "name", Reason: "folder name must not be empty"}
	}

	folder := Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	r.folders = append(r.folders, folder)
	r.persist()
	return folder, nil
}

// Delete removes a folder and unfiles every session that referenced it.
// Sessions are never deleted as a side effect of organizing structure.
// Deleting an unknown folder id is a no-op.
func (r *FolderRepository) Delete(folderID string) {
	for i, folder := range r.folders {
		if folder.ID == folderID {
			r.folders = append(r.folders[:i], r.folders[i+1:]...)
			r.persist()
			break
		}
	}
	r.sessions.clearFolderRefs(folderID)
}

// ListAll returns all folders in creation order.
func (r *FolderRepository) ListAll() []Folder {
	out := make([]Folder, len(r.folders))
	copy(out, r.folders)
	return out
}

// Get returns the folder with the given id.
func (r *FolderRepository) Get(folderID string) (Folder, bool) {
	for _, folder := range r.folders {
		if folder.ID == folderID {
			return folder, true
		}
	}
	return Folder{}, false
}

// FindByName returns the first folder whose name matches exactly.
func (r *FolderRepository) FindByName(name string) (Folder, bool) {
	for _, folder := range r.folders {
		if folder.Name == name {
			return folder, true
		}
	}
	return Folder{}, false
}

func (r *FolderRepository) persist() {
	data, err := json.Marshal(r.folders)
	if err != nil {
		LogWarn("failed to encode folder list", "error", err)
		return
	}
	if err := r.store.Set(foldersKey, string(data)); err != nil {
		LogWarn("failed to persist folder list", "error", err)
	}
}
