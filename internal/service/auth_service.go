package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/quick-cart-101/AuthService/internal/model"
	"github.com/quick-cart-101/AuthService/internal/repository"
	"github.com/quick-cart-101/AuthService/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email or contact number already exists")
	ErrUserNotRegistered  = errors.New("user not registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = utils.ErrInvalidToken
)

const bearerPrefix = "Bearer "

// SignUpInput carries the fields required to register a new user.
type SignUpInput struct {
	Name          string
	Email         string
	Password      string
	ContactNumber string
	Address       string
}

// AuthService provides the credential and session lifecycle operations
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Session, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      *utils.TokenService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, tokens *utils.TokenService) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
	}
}

// SignUp registers a new user. The email and contact number must both be
// unused; the password is stored only as a bcrypt digest.
func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*model.User, error) {
	emailTaken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if emailTaken {
		return nil, ErrUserAlreadyExists
	}

	contactTaken, err := s.userRepo.ExistsByContactNumber(ctx, input.ContactNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing contact number: %w", err)
	}
	if contactTaken {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roles := []string{model.RoleCustomer}

	// Check for initial admin setup via environment variable
	initialAdminEmail := os.Getenv("INITIAL_ADMIN_EMAIL")
	if initialAdminEmail != "" && input.Email == initialAdminEmail {
		roles = append(roles, model.RoleAdmin)
		log.Printf("INFO: User %s is being registered as ADMIN via INITIAL_ADMIN_EMAIL.", input.Email)
	}

	user := &model.User{
		Base:          model.NewBase(),
		Name:          input.Name,
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		ContactNumber: input.ContactNumber,
		Address:       input.Address,
		Roles:         roles,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return user, nil
}

// Login authenticates credentials, issues a token and records an ACTIVE session
func (s *authService) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotRegistered
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// Logout invalidates the session belonging to the token. An unknown or
// already invalidated token is a no-op.
func (s *authService) Logout(ctx context.Context, token string) error {
	if _, err := s.sessionRepo.Deactivate(ctx, stripBearer(token)); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// CurrentUser verifies the token's signature and expiry, then resolves its
// subject to a user. Session status is deliberately not consulted here: the
// token stays cryptographically valid until its TTL elapses, and callers that
// care about invalidation check the session via Refresh or the session store.
func (s *authService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Verify(stripBearer(token))
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("error resolving token subject: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotRegistered
	}
	return user, nil
}

// Refresh rotates a token: the presented session must exist and be ACTIVE, and
// a new token plus a new ACTIVE session is created for the same user. The old
// session row is left untouched so other devices holding it stay logged in.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	session, err := s.sessionRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error finding session by token: %w", err)
	}
	if session == nil || session.Status != model.SessionActive {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("error finding session owner: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotRegistered
	}

	return s.startSession(ctx, user)
}

// ListUsers returns all registered users
func (s *authService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user. Their sessions are flipped to INACTIVE first so
// no ACTIVE session row outlives its owner; the rows themselves are kept.
func (s *authService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error finding user for deletion: %w", err)
	}
	if user == nil {
		return ErrUserNotRegistered
	}

	if err := s.sessionRepo.DeactivateByUser(ctx, id); err != nil {
		return fmt.Errorf("failed to invalidate sessions of deleted user: %w", err)
	}
	deleted, err := s.userRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		// The user vanished between the existence check and the delete
		return ErrUserNotRegistered
	}
	return nil
}

// startSession issues a token for the user and persists a new ACTIVE session row.
func (s *authService) startSession(ctx context.Context, user *model.User) (*model.Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session := &model.Session{
		Base:   model.NewBase(),
		UserID: user.ID,
		Token:  token,
		Status: model.SessionActive,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session in repository: %w", err)
	}
	return session, nil
}

func stripBearer(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, bearerPrefix))
}
