package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loket-mbc/ticketing-api/internal/model"
)

// TicketTypeRepository exposes the store's ticket type procedures.
type TicketTypeRepository struct {
	db *pgxpool.Pool
}

// NewTicketTypeRepository constructs a TicketTypeRepository.
func NewTicketTypeRepository(db *pgxpool.Pool) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

// List returns all ticket types.
func (r *TicketTypeRepository) List(ctx context.Context) ([]model.TicketType, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price, stock, max_buy, platform_fee, event_id
		 FROM fn_list_ticket_types()`,
	)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", translate(err))
	}
	defer rows.Close()

	var types []model.TicketType
	for rows.Next() {
		var t model.TicketType
		if err := rows.Scan(&t.ID, &t.Name, &t.Price, &t.Stock, &t.MaxBuy, &t.PlatformFee, &t.EventID); err != nil {
			return nil, fmt.Errorf("scan ticket type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Detail returns a ticket type together with its transactions, or
// ErrNotFound.
func (r *TicketTypeRepository) Detail(ctx context.Context, id int) (*model.TicketType, []model.Transaction, error) {
	var t model.TicketType
	err := r.db.QueryRow(ctx,
		`SELECT id, name, price, stock, max_buy, platform_fee, event_id
		 FROM fn_ticket_type_detail($1)`,
		id,
	).Scan(&t.ID, &t.Name, &t.Price, &t.Stock, &t.MaxBuy, &t.PlatformFee, &t.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("ticket type detail: %w", translate(err))
	}

	rows, err := r.db.Query(ctx,
		`SELECT ticket_id, user_name, ticket_type_name, event_name, amount,
		        payment_method, payment_status, external_id, redeemed_amount,
		        barcode_url, bought_at, paid_at
		 FROM fn_ticket_type_transactions($1)`,
		id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("ticket type transactions: %w", translate(err))
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, nil, err
	}
	return &t, txs, nil
}

// Create adds a ticket type for an event.
func (r *TicketTypeRepository) Create(ctx context.Context, req model.TicketTypeRequest) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_add_ticket_type($1, $2, $3, $4, $5, $6, $7)`,
		req.Name, req.Price, req.Stock, req.MaxBuy, req.PlatformFee, req.EventID, req.UserID,
	)
	if err != nil {
		return fmt.Errorf("add ticket type: %w", translate(err))
	}
	return nil
}

// Update modifies a ticket type.
func (r *TicketTypeRepository) Update(ctx context.Context, id int, req model.TicketTypeRequest) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_update_ticket_type($1, $2, $3, $4, $5, $6, $7)`,
		id, req.Name, req.Price, req.Stock, req.MaxBuy, req.PlatformFee, req.UserID,
	)
	if err != nil {
		return fmt.Errorf("update ticket type: %w", translate(err))
	}
	return nil
}

// Delete removes a ticket type, recording the acting admin.
func (r *TicketTypeRepository) Delete(ctx context.Context, id, actorID int) error {
	_, err := r.db.Exec(ctx, `CALL sp_delete_ticket_type($1, $2)`, id, actorID)
	if err != nil {
		return fmt.Errorf("delete ticket type: %w", translate(err))
	}
	return nil
}
