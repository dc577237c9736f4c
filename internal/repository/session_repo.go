package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quick-cart-101/AuthService/internal/model"
)

// SessionRepository defines operations for session data. Sessions are never
// deleted; invalidation is a status mutation.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	Deactivate(ctx context.Context, token string) (bool, error)
	DeactivateByUser(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session into the database
func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	sql := `INSERT INTO sessions (id, user_id, token, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, sql,
		session.ID, session.UserID, session.Token, session.Status,
		session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByToken retrieves a session by its token string
func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	session := &model.Session{}
	sql := `SELECT id, user_id, token, status, created_at, updated_at
            FROM sessions WHERE token = $1`
	err := r.db.QueryRow(ctx, sql, token).Scan(
		&session.ID, &session.UserID, &session.Token, &session.Status,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Session not found
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}
	return session, nil
}

// Deactivate flips an ACTIVE session to INACTIVE in a single statement, so the
// read-modify-write relies on the database's row-level atomicity. It reports
// whether a row was actually flipped; an unknown or already inactive token is
// not an error.
func (r *sessionRepository) Deactivate(ctx context.Context, token string) (bool, error) {
	sql := `UPDATE sessions SET status = $1, updated_at = NOW() WHERE token = $2 AND status = $3`
	cmdTag, err := r.db.Exec(ctx, sql, model.SessionInactive, token, model.SessionActive)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate session: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// DeactivateByUser marks every ACTIVE session of the user INACTIVE. Used when
// an admin deletes the user, so no session row is left dangling in ACTIVE state.
func (r *sessionRepository) DeactivateByUser(ctx context.Context, userID uuid.UUID) error {
	sql := `UPDATE sessions SET status = $1, updated_at = NOW() WHERE user_id = $2 AND status = $3`
	_, err := r.db.Exec(ctx, sql, model.SessionInactive, userID, model.SessionActive)
	if err != nil {
		return fmt.Errorf("failed to deactivate sessions for user: %w", err)
	}
	return nil
}
