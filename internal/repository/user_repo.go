package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quick-cart-101/AuthService/internal/model"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByContactNumber(ctx context.Context, contactNumber string) (bool, error)
	FindAll(ctx context.Context) ([]model.User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, name, email, password_hash, contact_number, address, roles, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, sql,
		user.ID, user.Name, user.Email, user.PasswordHash, user.ContactNumber,
		user.Address, user.Roles, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, contact_number, address, roles, created_at, updated_at
            FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ContactNumber,
		&user.Address, &user.Roles, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, contact_number, address, roles, created_at, updated_at
            FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ContactNumber,
		&user.Address, &user.Roles, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// ExistsByEmail reports whether a user with the given email is registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.QueryRow(ctx, sql, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence by email: %w", err)
	}
	return exists, nil
}

// ExistsByContactNumber reports whether a user with the given contact number is registered
func (r *userRepository) ExistsByContactNumber(ctx context.Context, contactNumber string) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS(SELECT 1 FROM users WHERE contact_number = $1)`
	if err := r.db.QueryRow(ctx, sql, contactNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence by contact number: %w", err)
	}
	return exists, nil
}

// FindAll retrieves every registered user
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT id, name, email, password_hash, contact_number, address, roles, created_at, updated_at
            FROM users ORDER BY created_at`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ContactNumber,
			&user.Address, &user.Roles, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// DeleteByID removes a user from the database. It reports whether a row was
// actually deleted; absence is not an error at this layer.
func (r *userRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	sql := `DELETE FROM users WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
