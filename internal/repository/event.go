package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loket-mbc/ticketing-api/internal/model"
)

// EventRepository exposes the store's event procedures.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// List returns all events.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, start_date, end_date, location, owner_user_id
		 FROM fn_list_events()`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", translate(err))
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.Location, &e.OwnerUserID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Detail returns an event together with its transactions, or ErrNotFound.
func (r *EventRepository) Detail(ctx context.Context, id int) (*model.Event, []model.Transaction, error) {
	var e model.Event
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, start_date, end_date, location, owner_user_id
		 FROM fn_event_detail($1)`,
		id,
	).Scan(&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.Location, &e.OwnerUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("event detail: %w", translate(err))
	}

	rows, err := r.db.Query(ctx,
		`SELECT ticket_id, user_name, ticket_type_name, event_name, amount,
		        payment_method, payment_status, external_id, redeemed_amount,
		        barcode_url, bought_at, paid_at
		 FROM fn_event_transactions($1)`,
		id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("event transactions: %w", translate(err))
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, nil, err
	}
	return &e, txs, nil
}

// Create adds an event owned by the acting admin.
func (r *EventRepository) Create(ctx context.Context, req model.EventRequest, start, end time.Time) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_add_event($1, $2, $3, $4, $5, $6)`,
		req.Name, req.Description, start, end, req.Location, req.UserID,
	)
	if err != nil {
		return fmt.Errorf("add event: %w", translate(err))
	}
	return nil
}

// Update modifies an event.
func (r *EventRepository) Update(ctx context.Context, id int, req model.EventRequest, start, end time.Time) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_update_event($1, $2, $3, $4, $5, $6, $7)`,
		id, req.Name, req.Description, start, end, req.Location, req.UserID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", translate(err))
	}
	return nil
}

// Delete removes an event, recording the acting admin.
func (r *EventRepository) Delete(ctx context.Context, id, actorID int) error {
	_, err := r.db.Exec(ctx, `CALL sp_delete_event($1, $2)`, id, actorID)
	if err != nil {
		return fmt.Errorf("delete event: %w", translate(err))
	}
	return nil
}
