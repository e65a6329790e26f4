package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Folder-specific validation errors
var (
	ErrFolderIDEmpty     = errors.New("folder ID cannot be empty")
	ErrFolderUserIDEmpty = errors.New("folder user ID cannot be empty")
	ErrFolderNameEmpty   = errors.New("folder name cannot be empty")
)

// Folder groups decks for organizational purposes. Folders never nest.
type Folder struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFolder creates a new Folder owned by the given user.
// Returns an error if validation fails.
func NewFolder(userID uuid.UUID, name string) (*Folder, error) {
	now := time.Now().UTC()
	folder := &Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := folder.Validate(); err != nil {
		return nil, err
	}

	return folder, nil
}

// Validate checks if the Folder has valid data.
func (f *Folder) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFolderIDEmpty
	}

	if f.UserID == uuid.Nil {
		return ErrFolderUserIDEmpty
	}

	if strings.TrimSpace(f.Name) == "" {
		return ErrFolderNameEmpty
	}

	return nil
}
