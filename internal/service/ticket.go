package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/loket-mbc/ticketing-api/internal/model"
)

// TicketStore is the slice of the store the ticket service needs. Purchase
// and Redeem must be atomic in the store: stock check, decrement and insert
// happen in one call, never as separate reads and writes from here.
type TicketStore interface {
	Purchase(ctx context.Context, req model.PurchaseRequest, externalID string) error
	Redeem(ctx context.Context, req model.RedeemRequest) error
	UpdatePaymentStatus(ctx context.Context, status, externalID, barcodeURL, ticketID string) error
	Search(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error)
}

// TicketService handles purchase, redemption, payment callbacks and the
// transaction search.
type TicketService struct {
	store TicketStore
}

// NewTicketService constructs a TicketService.
func NewTicketService(store TicketStore) *TicketService {
	return &TicketService{store: store}
}

// Purchase validates the request, generates a fresh external correlation id
// for the payment gateway, and delegates the atomic stock decrement and
// transaction insert to the store. The external id is returned so callers
// can log the correlation.
func (s *TicketService) Purchase(ctx context.Context, req model.PurchaseRequest) (string, error) {
	ve := model.ValidationError{}
	if req.TicketAmount <= 0 {
		ve["ticket_amount"] = "ticket_amount must be a positive integer"
	}
	if req.BasePrice < 0 {
		ve["base_price"] = "base_price cannot be negative"
	}
	if req.UserID <= 0 {
		ve["user_id"] = "user_id is required"
	}
	if req.TicketTypeID <= 0 {
		ve["ticket_type_id"] = "ticket_type_id is required"
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		ve["payment_method"] = "payment_method is required"
	}
	if strings.TrimSpace(req.PaymentStatus) == "" {
		ve["payment_status"] = "payment_status is required"
	}
	if len(ve) > 0 {
		return "", ve
	}

	externalID := uuid.New().String()
	if err := s.store.Purchase(ctx, req, externalID); err != nil {
		return "", err
	}
	return externalID, nil
}

// Redeem validates the request and delegates the atomic redemption to the
// store. The store enforces that cumulative redemption never exceeds the
// purchased amount; this layer does not pre-check it.
func (s *TicketService) Redeem(ctx context.Context, req model.RedeemRequest) error {
	ve := model.ValidationError{}
	if strings.TrimSpace(req.TicketID) == "" {
		ve["ticket_id"] = "ticket_id is required"
	}
	if req.RedeemedAmount <= 0 {
		ve["redeemed_amount"] = "redeemed_amount must be a positive integer"
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		ve["latitude"] = "latitude must be between -90 and 90"
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		ve["longitude"] = "longitude must be between -180 and 180"
	}
	if req.UserID <= 0 {
		ve["user_id"] = "user_id is required"
	}
	if len(ve) > 0 {
		return ve
	}

	return s.store.Redeem(ctx, req)
}

// UpdatePaymentStatus handles the payment gateway callback. A fresh ticket
// id is generated and keys the barcode asset attached to the transaction.
// The endpoint is unauthenticated; the store rejects external ids that do
// not correlate to a pending transaction.
func (s *TicketService) UpdatePaymentStatus(ctx context.Context, req model.PaymentStatusRequest) error {
	ve := model.ValidationError{}
	if strings.TrimSpace(req.Status) == "" {
		ve["status"] = "status is required"
	}
	if strings.TrimSpace(req.ExternalID) == "" {
		ve["external_id"] = "external_id is required"
	}
	if len(ve) > 0 {
		return ve
	}

	ticketID := uuid.New().String()
	barcodeURL := "barcode/" + ticketID
	return s.store.UpdatePaymentStatus(ctx, req.Status, req.ExternalID, barcodeURL, ticketID)
}

// Search forwards the optional filters wholesale to the store's search
// procedure.
func (s *TicketService) Search(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error) {
	return s.store.Search(ctx, f)
}
