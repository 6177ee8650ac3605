package service

import (
	"context"
	"testing"
	"time"

	"github.com/loket-mbc/ticketing-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Detail(ctx context.Context, id int) (*model.User, []model.Transaction, error) {
	args := m.Called(ctx, id)
	var u *model.User
	if v := args.Get(0); v != nil {
		u = v.(*model.User)
	}
	var txs []model.Transaction
	if v := args.Get(1); v != nil {
		txs = v.([]model.Transaction)
	}
	return u, txs, args.Error(2)
}

func (m *mockUserStore) Create(ctx context.Context, req model.CreateUserRequest, passwordDigest string) error {
	return m.Called(ctx, req, passwordDigest).Error(0)
}

func (m *mockUserStore) Update(ctx context.Context, id int, req model.UpdateUserRequest, passwordDigest *string) error {
	return m.Called(ctx, id, req, passwordDigest).Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, id, actorID int) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *mockUserStore) Activities(ctx context.Context) ([]model.UserActivity, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]model.UserActivity), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEventStore struct {
	mock.Mock
}

func (m *mockEventStore) List(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	if e := args.Get(0); e != nil {
		return e.([]model.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventStore) Detail(ctx context.Context, id int) (*model.Event, []model.Transaction, error) {
	args := m.Called(ctx, id)
	var e *model.Event
	if v := args.Get(0); v != nil {
		e = v.(*model.Event)
	}
	var txs []model.Transaction
	if v := args.Get(1); v != nil {
		txs = v.([]model.Transaction)
	}
	return e, txs, args.Error(2)
}

func (m *mockEventStore) Create(ctx context.Context, req model.EventRequest, start, end time.Time) error {
	return m.Called(ctx, req, start, end).Error(0)
}

func (m *mockEventStore) Update(ctx context.Context, id int, req model.EventRequest, start, end time.Time) error {
	return m.Called(ctx, id, req, start, end).Error(0)
}

func (m *mockEventStore) Delete(ctx context.Context, id, actorID int) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func TestUserService_Create_RejectsUnknownRole(t *testing.T) {
	store := &mockUserStore{}
	svc := NewUserService(store)

	err := svc.Create(context.Background(), model.CreateUserRequest{
		Name:      "Bob",
		Email:     "b@x.com",
		Password:  "secret password",
		Role:      "root",
		CreatorID: 1,
	})

	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "role")
	store.AssertNotCalled(t, "Create")
}

func TestUserService_Create_HashesPassword(t *testing.T) {
	store := &mockUserStore{}
	svc := NewUserService(store)

	var digest string
	store.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			digest = args.String(2)
		}).
		Return(nil)

	err := svc.Create(context.Background(), model.CreateUserRequest{
		Name:      "Bob",
		Email:     "b@x.com",
		Password:  "secret password",
		Role:      model.RoleAdmin,
		CreatorID: 1,
	})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(digest), []byte("secret password")))
}

func TestUserService_Update_EmptyPasswordKeepsDigest(t *testing.T) {
	store := &mockUserStore{}
	svc := NewUserService(store)

	store.On("Update", mock.Anything, 5, mock.Anything, (*string)(nil)).Return(nil)

	err := svc.Update(context.Background(), 5, model.UpdateUserRequest{
		Name:   "Bob",
		Email:  "b@x.com",
		Role:   model.RoleUser,
		UserID: 1,
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestEventService_Create_InvalidDates(t *testing.T) {
	store := &mockEventStore{}
	svc := NewEventService(store)

	err := svc.Create(context.Background(), model.EventRequest{
		Name:        "Concert",
		Description: "Annual show",
		StartDate:   "not-a-date",
		EndDate:     "also-bad",
		Location:    "Jakarta",
		UserID:      2,
	})

	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "start_date")
	assert.Contains(t, ve, "end_date")
	store.AssertNotCalled(t, "Create")
}

func TestEventService_Create_AcceptsPlainDates(t *testing.T) {
	store := &mockEventStore{}
	svc := NewEventService(store)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	store.On("Create", mock.Anything, mock.Anything, start, end).Return(nil)

	err := svc.Create(context.Background(), model.EventRequest{
		Name:        "Concert",
		Description: "Annual show",
		StartDate:   "2025-03-01",
		EndDate:     "2025-03-02",
		Location:    "Jakarta",
		UserID:      2,
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTicketTypeService_Create_Validation(t *testing.T) {
	svc := NewTicketTypeService(nil)

	err := svc.Create(context.Background(), model.TicketTypeRequest{
		Name:        "",
		Price:       -1,
		Stock:       -5,
		MaxBuy:      0,
		PlatformFee: -2,
		EventID:     0,
		UserID:      0,
	})

	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	for _, field := range []string{"name", "price", "stock", "max_buy", "platform_fee", "event_id", "user_id"} {
		assert.Contains(t, ve, field)
	}
}
