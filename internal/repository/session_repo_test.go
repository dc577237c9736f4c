package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quick-cart-101/AuthService/internal/model"
)

func TestSessionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSessionRepository(mock)
	session := &model.Session{
		Base:   model.NewBase(),
		UserID: uuid.New(),
		Token:  "signed.token.string",
		Status: model.SessionActive,
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(session.ID, session.UserID, session.Token, session.Status,
			session.CreatedAt, session.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), session)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_FindByToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSessionRepository(mock)
	id := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE token").
		WithArgs("signed.token.string").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "token", "status", "created_at", "updated_at"}).
			AddRow(id, userID, "signed.token.string", model.SessionActive, now, now))

	session, err := repo.FindByToken(context.Background(), "signed.token.string")

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, model.SessionActive, session.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_FindByToken_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE token").
		WithArgs("unknown.token").
		WillReturnError(pgx.ErrNoRows)

	session, err := repo.FindByToken(context.Background(), "unknown.token")

	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Deactivate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec("UPDATE sessions SET status").
		WithArgs(model.SessionInactive, "signed.token.string", model.SessionActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	flipped, err := repo.Deactivate(context.Background(), "signed.token.string")

	assert.NoError(t, err)
	assert.True(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Deactivate_UnknownToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSessionRepository(mock)

	mock.ExpectExec("UPDATE sessions SET status").
		WithArgs(model.SessionInactive, "unknown.token", model.SessionActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	flipped, err := repo.Deactivate(context.Background(), "unknown.token")

	// No matching row is a no-op, not an error
	assert.NoError(t, err)
	assert.False(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DeactivateByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSessionRepository(mock)
	userID := uuid.New()

	mock.ExpectExec("UPDATE sessions SET status").
		WithArgs(model.SessionInactive, userID, model.SessionActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	err = repo.DeactivateByUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
