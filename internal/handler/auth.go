package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/loket-mbc/ticketing-api/internal/model"
	"github.com/loket-mbc/ticketing-api/internal/repository"
)

// AuthSvc is the authentication surface the handlers depend on.
type AuthSvc interface {
	Register(ctx context.Context, req model.RegisterRequest) error
	Login(ctx context.Context, req model.LoginRequest) (string, error)
	Logout(ctx context.Context, sessionID string) error
	CheckSession(ctx context.Context, sessionID string) (model.SessionCheck, error)
}

// AuthHandler holds the HTTP handlers for registration and sessions.
type AuthHandler struct {
	svc AuthSvc
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc AuthSvc) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Register(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "user registered successfully"})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sessionID, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Message:   "login successful",
		SessionID: sessionID,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Logout(r.Context(), req.SessionID); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "logout successful"})
}

// CheckSession handles GET /check-session?session_id=
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	check, err := h.svc.CheckSession(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, check)
}
