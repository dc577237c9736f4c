package model

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the identifier and audit timestamps shared by all persisted entities.
// It is embedded by value rather than inherited.
type Base struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase returns a Base with a fresh random ID and both timestamps set to now.
func NewBase() Base {
	now := time.Now()
	return Base{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
