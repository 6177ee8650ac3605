package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loket-mbc/ticketing-api/internal/model"
)

// TicketRepository exposes the store's transaction procedures. Purchase and
// Redeem are single atomic calls: the procedure performs the whole
// check-then-mutate sequence under its own locking, so concurrent requests
// can never observe partial state from this layer.
type TicketRepository struct {
	db *pgxpool.Pool
}

// NewTicketRepository constructs a TicketRepository.
func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: db}
}

// Purchase atomically verifies stock, decrements it, and inserts the pending
// transaction. Insufficient stock surfaces as a BusinessError with the
// procedure's message.
func (r *TicketRepository) Purchase(ctx context.Context, req model.PurchaseRequest, externalID string) error {
	_, err := r.db.Exec(ctx,
		`CALL purchase_ticket($1, $2, $3, $4, $5, $6, $7)`,
		req.TicketAmount, req.BasePrice, req.UserID, req.TicketTypeID,
		req.PaymentMethod, req.PaymentStatus, externalID,
	)
	if err != nil {
		return fmt.Errorf("purchase ticket: %w", translate(err))
	}
	return nil
}

// Redeem atomically increments a ticket's redeemed amount and records the
// redemption geolocation and timestamp. Over-redemption and unpaid tickets
// are rejected by the procedure.
func (r *TicketRepository) Redeem(ctx context.Context, req model.RedeemRequest) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_redeem_ticket($1, $2, $3, $4, $5)`,
		req.TicketID, req.RedeemedAmount, req.Latitude, req.Longitude, req.UserID,
	)
	if err != nil {
		return fmt.Errorf("redeem ticket: %w", translate(err))
	}
	return nil
}

// UpdatePaymentStatus transitions the pending transaction correlated by
// externalID and attaches the barcode asset. The procedure rejects unknown
// or non-pending external ids.
func (r *TicketRepository) UpdatePaymentStatus(ctx context.Context, status, externalID, barcodeURL, ticketID string) error {
	_, err := r.db.Exec(ctx,
		`CALL sp_update_payment_status($1, $2, $3, $4)`,
		status, externalID, barcodeURL, ticketID,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", translate(err))
	}
	return nil
}

// Search runs the parameterized transaction search. Nil filters are passed
// as NULL; the procedure combines present filters with AND semantics.
func (r *TicketRepository) Search(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ticket_id, user_name, ticket_type_name, event_name, amount,
		        payment_method, payment_status, external_id, redeemed_amount,
		        barcode_url, bought_at, paid_at
		 FROM fn_search_transactions($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		f.TicketID, f.UserName, f.TicketTypeName, f.EventName,
		f.PaymentMethod, f.PaymentStatus,
		f.BuyStartDate, f.BuyEndDate, f.PayStartDate, f.PayEndDate,
	)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", translate(err))
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions reads transaction rows in the column order all
// transaction-returning procedures share.
func scanTransactions(rows pgx.Rows) ([]model.Transaction, error) {
	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var barcode *string
		var boughtAt, paidAt *time.Time
		if err := rows.Scan(
			&t.TicketID, &t.UserName, &t.TicketTypeName, &t.EventName, &t.Amount,
			&t.PaymentMethod, &t.PaymentStatus, &t.ExternalID, &t.RedeemedAmount,
			&barcode, &boughtAt, &paidAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if barcode != nil {
			t.BarcodeURL = *barcode
		}
		t.BoughtAt = boughtAt
		t.PaidAt = paidAt
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
