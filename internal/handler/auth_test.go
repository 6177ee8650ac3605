package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loket-mbc/ticketing-api/internal/model"
	"github.com/loket-mbc/ticketing-api/internal/repository"
	"github.com/loket-mbc/ticketing-api/internal/service"
	"github.com/loket-mbc/ticketing-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthSvc struct {
	register     func(ctx context.Context, req model.RegisterRequest) error
	login        func(ctx context.Context, req model.LoginRequest) (string, error)
	logout       func(ctx context.Context, sessionID string) error
	checkSession func(ctx context.Context, sessionID string) (model.SessionCheck, error)
}

func (s *stubAuthSvc) Register(ctx context.Context, req model.RegisterRequest) error {
	return s.register(ctx, req)
}

func (s *stubAuthSvc) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	return s.login(ctx, req)
}

func (s *stubAuthSvc) Logout(ctx context.Context, sessionID string) error {
	return s.logout(ctx, sessionID)
}

func (s *stubAuthSvc) CheckSession(ctx context.Context, sessionID string) (model.SessionCheck, error) {
	return s.checkSession(ctx, sessionID)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Register_FieldErrors(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		register: func(ctx context.Context, req model.RegisterRequest) error {
			return model.ValidationError{"password": "password must be at least 6 characters"}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"Alice","email":"a@x.com","password":"short"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Contains(t, fields, "password")
}

func TestAuthHandler_Register_Created(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		register: func(ctx context.Context, req model.RegisterRequest) error { return nil },
	})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"Alice","email":"a@x.com","password":"secret password"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAuthHandler_Register_DuplicateEmailConflict(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		register: func(ctx context.Context, req model.RegisterRequest) error {
			return &repository.BusinessError{Message: "email already registered"}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"Alice","email":"a@x.com","password":"secret password"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestAuthHandler_Login_UserNotFound(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		login: func(ctx context.Context, req model.LoginRequest) (string, error) {
			return "", repository.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"missing@x.com","password":"whatever"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		login: func(ctx context.Context, req model.LoginRequest) (string, error) {
			return "", service.ErrInvalidCredentials
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"a@x.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Login_ReturnsSessionID(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		login: func(ctx context.Context, req model.LoginRequest) (string, error) {
			return "session-123", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"a@x.com","password":"secret password"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-123", resp.SessionID)
}

func TestAuthHandler_Logout_OK(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		logout: func(ctx context.Context, sessionID string) error { return nil },
	})

	req := httptest.NewRequest(http.MethodPost, "/logout",
		strings.NewReader(`{"session_id":"whatever"}`))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_CheckSession_Valid(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		checkSession: func(ctx context.Context, sessionID string) (model.SessionCheck, error) {
			assert.Equal(t, "sid", sessionID)
			return model.SessionCheck{Valid: true, UserID: 42, Role: model.RoleUser}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/check-session?session_id=sid", nil)
	rec := httptest.NewRecorder()
	h.CheckSession(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var check model.SessionCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	assert.True(t, check.Valid)
	assert.Equal(t, 42, check.UserID)
	assert.Equal(t, model.RoleUser, check.Role)
}

func TestAuthHandler_CheckSession_MalformedPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthSvc{
		checkSession: func(ctx context.Context, sessionID string) (model.SessionCheck, error) {
			return model.SessionCheck{}, session.ErrMalformedSession
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/check-session?session_id=corrupt", nil)
	rec := httptest.NewRecorder()
	h.CheckSession(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid session data format")
}
