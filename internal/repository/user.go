package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loket-mbc/ticketing-api/internal/model"
)

// UserRepository exposes the store's user administration procedures.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// List returns all users.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, role, status FROM fn_list_users()`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", translate(err))
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Detail returns a user together with their purchase history, or
// ErrNotFound.
func (r *UserRepository) Detail(ctx context.Context, id int) (*model.User, []model.Transaction, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, role, status FROM fn_user_detail($1)`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("user detail: %w", translate(err))
	}

	rows, err := r.db.Query(ctx,
		`SELECT ticket_id, user_name, ticket_type_name, event_name, amount,
		        payment_method, payment_status, external_id, redeemed_amount,
		        barcode_url, bought_at, paid_at
		 FROM fn_user_transactions($1)`,
		id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("user transactions: %w", translate(err))
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, nil, err
	}
	return &u, txs, nil
}

// Create adds a user with an explicit role on behalf of a superadmin.
func (r *UserRepository) Create(ctx context.Context, req model.CreateUserRequest, passwordDigest string) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_add_user($1, $2, $3, $4, $5)`,
		req.Name, req.Email, passwordDigest, req.Role, req.CreatorID,
	)
	if err != nil {
		return fmt.Errorf("add user: %w", translate(err))
	}
	return nil
}

// Update modifies a user. A nil digest keeps the stored password.
func (r *UserRepository) Update(ctx context.Context, id int, req model.UpdateUserRequest, passwordDigest *string) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_update_user($1, $2, $3, $4, $5, $6)`,
		id, req.Name, req.Email, passwordDigest, req.Role, req.UserID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", translate(err))
	}
	return nil
}

// Delete removes a user, recording the acting superadmin.
func (r *UserRepository) Delete(ctx context.Context, id, actorID int) error {
	_, err := r.db.Exec(ctx, `CALL sp_delete_user($1, $2)`, id, actorID)
	if err != nil {
		return fmt.Errorf("delete user: %w", translate(err))
	}
	return nil
}

// Activities returns the store's user activity audit view.
func (r *UserRepository) Activities(ctx context.Context) ([]model.UserActivity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, user_name, activity, created_at FROM vw_user_activities`,
	)
	if err != nil {
		return nil, fmt.Errorf("user activities: %w", translate(err))
	}
	defer rows.Close()

	var acts []model.UserActivity
	for rows.Next() {
		var a model.UserActivity
		if err := rows.Scan(&a.UserID, &a.UserName, &a.Activity, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}
