package handler

import (
	"context"
	"net/http"

	"github.com/loket-mbc/ticketing-api/internal/model"
)

// TicketSvc is the transaction surface the handlers depend on.
type TicketSvc interface {
	Purchase(ctx context.Context, req model.PurchaseRequest) (string, error)
	Redeem(ctx context.Context, req model.RedeemRequest) error
	UpdatePaymentStatus(ctx context.Context, req model.PaymentStatusRequest) error
	Search(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error)
}

// TicketHandler holds the HTTP handlers for ticket transactions.
type TicketHandler struct {
	svc TicketSvc
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(svc TicketSvc) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// Purchase handles POST /purchase-ticket
func (h *TicketHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req model.PurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	externalID, err := h.svc.Purchase(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "ticket purchased successfully",
		"external_id": externalID,
	})
}

// Redeem handles POST /redeem-ticket
func (h *TicketHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req model.RedeemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Redeem(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "ticket redeemed successfully"})
}

// UpdatePaymentStatus handles POST /update-payment-status, the
// unauthenticated payment gateway callback.
func (h *TicketHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.UpdatePaymentStatus(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "payment status updated successfully"})
}

// Transactions handles GET /transactions with optional query filters.
func (h *TicketHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	f := model.TransactionFilter{
		TicketID:       queryParam(r, "ticket_id"),
		UserName:       queryParam(r, "user_name"),
		TicketTypeName: queryParam(r, "ticket_type_name"),
		EventName:      queryParam(r, "event_name"),
		PaymentMethod:  queryParam(r, "payment_method"),
		PaymentStatus:  queryParam(r, "payment_status"),
		BuyStartDate:   queryParam(r, "buy_start_date"),
		BuyEndDate:     queryParam(r, "buy_end_date"),
		PayStartDate:   queryParam(r, "pay_start_date"),
		PayEndDate:     queryParam(r, "pay_end_date"),
	}

	txs, err := h.svc.Search(r.Context(), f)
	if err != nil {
		respondError(w, err)
		return
	}

	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": txs})
}

// queryParam returns a pointer to the query value, or nil when absent, so
// unset filters reach the store as NULL.
func queryParam(r *http.Request, key string) *string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}
