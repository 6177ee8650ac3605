package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/loket-mbc/ticketing-api/internal/model"
	"github.com/loket-mbc/ticketing-api/internal/repository"
	"github.com/loket-mbc/ticketing-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthStore struct {
	mock.Mock
}

func (m *mockAuthStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthStore) Register(ctx context.Context, name, email, passwordDigest string) error {
	return m.Called(ctx, name, email, passwordDigest).Error(0)
}

func (m *mockAuthStore) CreateSession(ctx context.Context, userID int, sessionID, payload string) error {
	return m.Called(ctx, userID, sessionID, payload).Error(0)
}

func (m *mockAuthStore) InvalidateSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockAuthStore) CheckSession(ctx context.Context, sessionID string) (bool, string, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.String(1), args.Error(2)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(digest)
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	err := svc.Register(context.Background(), model.RegisterRequest{
		Name:     "  ",
		Email:    "not-an-email",
		Password: "short",
	})

	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "name")
	assert.Contains(t, ve, "email")
	assert.Contains(t, ve, "password")
	store.AssertNotCalled(t, "Register")
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	var storedDigest string
	store.On("Register", mock.Anything, "Alice", "a@x.com", mock.Anything).
		Run(func(args mock.Arguments) {
			storedDigest = args.String(3)
		}).
		Return(nil)

	err := svc.Register(context.Background(), model.RegisterRequest{
		Name:     "Alice",
		Email:    "A@X.com",
		Password: "secret password",
	})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedDigest), []byte("secret password")))
	store.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("UserByEmail", mock.Anything, "missing@x.com").
		Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "missing@x.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("UserByEmail", mock.Anything, "a@x.com").Return(&model.User{
		ID:             1,
		Email:          "a@x.com",
		PasswordDigest: hashFor(t, "correct horse"),
		Role:           model.RoleUser,
	}, nil)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	store.AssertNotCalled(t, "CreateSession")
}

func TestAuthService_Login_MintsOpaqueSession(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("UserByEmail", mock.Anything, "admin@x.com").Return(&model.User{
		ID:             42,
		Email:          "admin@x.com",
		PasswordDigest: hashFor(t, "secret password"),
		Role:           model.RoleAdmin,
		Status:         1,
	}, nil)

	var mintedID, payload string
	store.On("CreateSession", mock.Anything, 42, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mintedID = args.String(2)
			payload = args.String(3)
		}).
		Return(nil)

	sessionID, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "admin@x.com",
		Password: "secret password",
	})

	require.NoError(t, err)
	assert.Equal(t, mintedID, sessionID)

	// The client token is an opaque UUID with no decodable structure.
	_, parseErr := uuid.Parse(sessionID)
	assert.NoError(t, parseErr)
	_, _, decodeErr := session.Decode(sessionID)
	assert.ErrorIs(t, decodeErr, session.ErrMalformedSession)

	// The stored payload carries the issuance-time identity.
	userID, role, err := session.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, model.RoleAdmin, role)
}

func TestAuthService_Login_IndependentSessions(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("UserByEmail", mock.Anything, "a@x.com").Return(&model.User{
		ID:             7,
		Email:          "a@x.com",
		PasswordDigest: hashFor(t, "secret password"),
		Role:           model.RoleUser,
	}, nil)
	store.On("CreateSession", mock.Anything, 7, mock.Anything, mock.Anything).Return(nil)

	req := model.LoginRequest{Email: "a@x.com", Password: "secret password"}
	first, err := svc.Login(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("InvalidateSession", mock.Anything, "unknown-session").
		Return(repository.ErrNotFound)

	assert.NoError(t, svc.Logout(context.Background(), "unknown-session"))
}

func TestAuthService_Logout_RequiresSessionID(t *testing.T) {
	svc := NewAuthService(&mockAuthStore{})

	var ve model.ValidationError
	require.ErrorAs(t, svc.Logout(context.Background(), "  "), &ve)
	assert.Contains(t, ve, "session_id")
}

func TestAuthService_Logout_SurfacesHardFailure(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("InvalidateSession", mock.Anything, "sid").
		Return(errors.New("connection reset"))

	assert.Error(t, svc.Logout(context.Background(), "sid"))
}

func TestAuthService_CheckSession_Invalid(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("CheckSession", mock.Anything, "expired").Return(false, "", nil)

	check, err := svc.CheckSession(context.Background(), "expired")
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Zero(t, check.UserID)
}

func TestAuthService_CheckSession_Valid(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("CheckSession", mock.Anything, "sid").
		Return(true, session.Encode(9, 1, model.RoleSuperadmin), nil)

	check, err := svc.CheckSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.True(t, check.Valid)
	assert.Equal(t, 9, check.UserID)
	assert.Equal(t, model.RoleSuperadmin, check.Role)
}

func TestAuthService_CheckSession_MalformedPayload(t *testing.T) {
	store := &mockAuthStore{}
	svc := NewAuthService(store)

	store.On("CheckSession", mock.Anything, "sid").Return(true, "bad_token", nil)

	_, err := svc.CheckSession(context.Background(), "sid")
	assert.ErrorIs(t, err, session.ErrMalformedSession)
}
