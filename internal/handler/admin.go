package handler

import (
	"context"
	"net/http"

	"github.com/loket-mbc/ticketing-api/internal/model"
)

// UserSvc is the user administration surface the handlers depend on.
type UserSvc interface {
	List(ctx context.Context) ([]model.User, error)
	Detail(ctx context.Context, id int) (*model.User, []model.Transaction, error)
	Create(ctx context.Context, req model.CreateUserRequest) error
	Update(ctx context.Context, id int, req model.UpdateUserRequest) error
	Delete(ctx context.Context, id, actorID int) error
	Activities(ctx context.Context) ([]model.UserActivity, error)
}

// EventSvc is the event administration surface the handlers depend on.
type EventSvc interface {
	List(ctx context.Context) ([]model.Event, error)
	Detail(ctx context.Context, id int) (*model.Event, []model.Transaction, error)
	Create(ctx context.Context, req model.EventRequest) error
	Update(ctx context.Context, id int, req model.EventRequest) error
	Delete(ctx context.Context, id, actorID int) error
}

// TicketTypeSvc is the ticket type administration surface the handlers
// depend on.
type TicketTypeSvc interface {
	List(ctx context.Context) ([]model.TicketType, error)
	Detail(ctx context.Context, id int) (*model.TicketType, []model.Transaction, error)
	Create(ctx context.Context, req model.TicketTypeRequest) error
	Update(ctx context.Context, id int, req model.TicketTypeRequest) error
	Delete(ctx context.Context, id, actorID int) error
}

// AdminHandler holds the role-gated CRUD handlers for users, events and
// ticket types.
type AdminHandler struct {
	users       UserSvc
	events      EventSvc
	ticketTypes TicketTypeSvc
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(users UserSvc, events EventSvc, ticketTypes TicketTypeSvc) *AdminHandler {
	return &AdminHandler{users: users, events: events, ticketTypes: ticketTypes}
}

// actorID resolves the acting user for delete endpoints from the session
// identity the middleware attached.
func actorID(r *http.Request) int {
	if id, ok := IdentityFrom(r.Context()); ok {
		return id.UserID
	}
	return 0
}

// ─── Users (superadmin) ───────────────────────────────────────────────────────

// ListUsers handles GET /users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, txs, err := h.users.Detail(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "transactions": txs})
}

// CreateUser handles POST /users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.users.Create(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "user added successfully"})
}

// UpdateUser handles PUT /users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.users.Update(r.Context(), id, req); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "user updated successfully"})
}

// DeleteUser handles DELETE /users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Delete(r.Context(), id, actorID(r)); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "user deleted successfully"})
}

// UserActivities handles GET /user-activities
func (h *AdminHandler) UserActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := h.users.Activities(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if acts == nil {
		acts = []model.UserActivity{}
	}
	writeJSON(w, http.StatusOK, acts)
}

// ─── Events (admin) ───────────────────────────────────────────────────────────

// ListEvents handles GET /events
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *AdminHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, txs, err := h.events.Detail(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event, "transactions": txs})
}

// CreateEvent handles POST /events
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.events.Create(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "event added successfully"})
}

// UpdateEvent handles PUT /events/{id}
func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.events.Update(r.Context(), id, req); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "event updated successfully"})
}

// DeleteEvent handles DELETE /events/{id}
func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.events.Delete(r.Context(), id, actorID(r)); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "event deleted successfully"})
}

// ─── Ticket types (admin) ─────────────────────────────────────────────────────

// ListTicketTypes handles GET /ticket-types
func (h *AdminHandler) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.ticketTypes.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if types == nil {
		types = []model.TicketType{}
	}
	writeJSON(w, http.StatusOK, types)
}

// GetTicketType handles GET /ticket-types/{id}
func (h *AdminHandler) GetTicketType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tt, txs, err := h.ticketTypes.Detail(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticket_type": tt, "transactions": txs})
}

// CreateTicketType handles POST /ticket-types
func (h *AdminHandler) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	var req model.TicketTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.ticketTypes.Create(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "ticket type added successfully"})
}

// UpdateTicketType handles PUT /ticket-types/{id}
func (h *AdminHandler) UpdateTicketType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.TicketTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.ticketTypes.Update(r.Context(), id, req); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "ticket type updated successfully"})
}

// DeleteTicketType handles DELETE /ticket-types/{id}
func (h *AdminHandler) DeleteTicketType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ticketTypes.Delete(r.Context(), id, actorID(r)); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "ticket type deleted successfully"})
}
