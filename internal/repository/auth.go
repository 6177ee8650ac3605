package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loket-mbc/ticketing-api/internal/model"
)

// AuthRepository exposes the credential store's user and session procedures.
type AuthRepository struct {
	db *pgxpool.Pool
}

// NewAuthRepository constructs an AuthRepository.
func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// UserByEmail returns the full credential record for a user, including the
// password digest, or ErrNotFound.
func (r *AuthRepository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password, role, status FROM fn_user_detail_by_email($1)`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordDigest, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by email: %w", translate(err))
	}
	return &u, nil
}

// Register creates a self-registered user with the default role. Duplicate
// emails surface as a BusinessError from the procedure.
func (r *AuthRepository) Register(ctx context.Context, name, email, passwordDigest string) error {
	_, err := r.db.Exec(ctx, `CALL sp_register_user($1, $2, $3)`, name, email, passwordDigest)
	if err != nil {
		return fmt.Errorf("register user: %w", translate(err))
	}
	return nil
}

// CreateSession records a new session. The session id is the opaque token
// held by the client; the payload is the server-side identity record the
// check procedure hands back on every validation.
func (r *AuthRepository) CreateSession(ctx context.Context, userID int, sessionID, payload string) error {
	_, err := r.db.Exec(ctx, `CALL sp_user_login($1, $2, $3)`, userID, sessionID, payload)
	if err != nil {
		return fmt.Errorf("create session: %w", translate(err))
	}
	return nil
}

// InvalidateSession marks a session invalid. The procedure does not
// distinguish unknown sessions from already-invalid ones.
func (r *AuthRepository) InvalidateSession(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `CALL sp_user_logout($1)`, sessionID)
	if err != nil {
		return fmt.Errorf("invalidate session: %w", translate(err))
	}
	return nil
}

// CheckSession validates a session token in a single round trip, returning
// the store's verdict and the identity payload it keeps for the session.
// An unknown session is reported as invalid rather than as an error.
func (r *AuthRepository) CheckSession(ctx context.Context, sessionID string) (bool, string, error) {
	var valid bool
	var payload *string
	err := r.db.QueryRow(ctx,
		`SELECT valid_session, session_data FROM fn_check_session($1)`,
		sessionID,
	).Scan(&valid, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("check session: %w", translate(err))
	}
	if payload == nil {
		return valid, "", nil
	}
	return valid, *payload, nil
}
