package model

import "github.com/google/uuid"

const (
	SessionActive   = "ACTIVE"
	SessionInactive = "INACTIVE"
)

// Session links an issued token to its owning user and a lifecycle status.
// Sessions are never physically deleted; invalidation flips Status to INACTIVE.
type Session struct {
	Base
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
	Status string    `json:"status"` // "ACTIVE" or "INACTIVE"
}
