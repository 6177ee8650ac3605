package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/loket-mbc/ticketing-api/internal/model"
	"github.com/loket-mbc/ticketing-api/internal/repository"
	"github.com/loket-mbc/ticketing-api/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login password does not match
// the stored digest.
var ErrInvalidCredentials = errors.New("invalid email or password")

// minPasswordLength applies to registration and admin user creation.
const minPasswordLength = 6

// AuthStore is the slice of the credential store the auth service needs.
type AuthStore interface {
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	Register(ctx context.Context, name, email, passwordDigest string) error
	CreateSession(ctx context.Context, userID int, sessionID, payload string) error
	InvalidateSession(ctx context.Context, sessionID string) error
	CheckSession(ctx context.Context, sessionID string) (bool, string, error)
}

// AuthService handles registration, login, logout and session checks.
type AuthService struct {
	store AuthStore
}

// NewAuthService constructs an AuthService.
func NewAuthService(store AuthStore) *AuthService {
	return &AuthService{store: store}
}

// Register validates the request, hashes the password, and delegates user
// creation to the store. The store assigns the default role.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	ve := model.ValidationError{}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		ve["name"] = "name is required"
	} else if len(req.Name) > 255 {
		ve["name"] = "name cannot exceed 255 characters"
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		ve["email"] = "email is required"
	} else if !isValidEmail(req.Email) {
		ve["email"] = "email is not a valid email address"
	}
	if len(req.Password) < minPasswordLength {
		ve["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if len(ve) > 0 {
		return ve
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Register(ctx, req.Name, req.Email, string(digest))
}

// Login verifies the credentials and mints a new session. The token handed
// to the client is an opaque UUID; the identity payload is encoded here and
// lives only in the store. Each login produces an independent session, so a
// user may hold several at once.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	ve := model.ValidationError{}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		ve["email"] = "email is required"
	} else if !isValidEmail(req.Email) {
		ve["email"] = "email is not a valid email address"
	}
	if req.Password == "" {
		ve["password"] = "password is required"
	}
	if len(ve) > 0 {
		return "", ve
	}

	user, err := s.store.UserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(req.Password)) != nil {
		return "", ErrInvalidCredentials
	}

	sessionID := uuid.New().String()
	payload := session.Encode(user.ID, user.Status, user.Role)
	if err := s.store.CreateSession(ctx, user.ID, sessionID, payload); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

// Logout invalidates a session. Unknown or already-invalid sessions are
// treated as success so repeated logouts stay idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return model.ValidationError{"session_id": "session_id is required"}
	}
	if err := s.store.InvalidateSession(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// CheckSession validates a session token against the store and decodes the
// identity payload the store returns. An invalid session yields a negative
// result, not an error; a valid session with an undecodable payload yields
// ErrMalformedSession since that signals store/codec disagreement.
func (s *AuthService) CheckSession(ctx context.Context, sessionID string) (model.SessionCheck, error) {
	if strings.TrimSpace(sessionID) == "" {
		return model.SessionCheck{}, model.ValidationError{"session_id": "session_id is required"}
	}

	valid, payload, err := s.store.CheckSession(ctx, sessionID)
	if err != nil {
		return model.SessionCheck{}, fmt.Errorf("check session: %w", err)
	}
	if !valid {
		return model.SessionCheck{Valid: false}, nil
	}

	userID, role, err := session.Decode(payload)
	if err != nil {
		return model.SessionCheck{}, err
	}
	return model.SessionCheck{Valid: true, UserID: userID, Role: role}, nil
}
