package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loket-mbc/ticketing-api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the store the user admin service needs.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	Detail(ctx context.Context, id int) (*model.User, []model.Transaction, error)
	Create(ctx context.Context, req model.CreateUserRequest, passwordDigest string) error
	Update(ctx context.Context, id int, req model.UpdateUserRequest, passwordDigest *string) error
	Delete(ctx context.Context, id, actorID int) error
	Activities(ctx context.Context) ([]model.UserActivity, error)
}

// UserService handles superadmin user management.
type UserService struct {
	store UserStore
}

// NewUserService constructs a UserService.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func validRole(role string) bool {
	return role == model.RoleUser || role == model.RoleAdmin || role == model.RoleSuperadmin
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.store.List(ctx)
}

// Detail returns a user and their transactions.
func (s *UserService) Detail(ctx context.Context, id int) (*model.User, []model.Transaction, error) {
	return s.store.Detail(ctx, id)
}

// Create validates and adds a user with an explicit role.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) error {
	ve := model.ValidationError{}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		ve["name"] = "name is required"
	} else if len(req.Name) > 255 {
		ve["name"] = "name cannot exceed 255 characters"
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(req.Email) {
		ve["email"] = "email is not a valid email address"
	}
	if len(req.Password) < minPasswordLength {
		ve["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if !validRole(req.Role) {
		ve["role"] = "role must be one of user, admin, superadmin"
	}
	if req.CreatorID <= 0 {
		ve["creator_id"] = "creator_id is required"
	}
	if len(ve) > 0 {
		return ve
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Create(ctx, req, string(digest))
}

// Update validates and modifies a user. An empty password keeps the stored
// digest.
func (s *UserService) Update(ctx context.Context, id int, req model.UpdateUserRequest) error {
	ve := model.ValidationError{}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		ve["name"] = "name is required"
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(req.Email) {
		ve["email"] = "email is not a valid email address"
	}
	if req.Password != "" && len(req.Password) < minPasswordLength {
		ve["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if !validRole(req.Role) {
		ve["role"] = "role must be one of user, admin, superadmin"
	}
	if req.UserID <= 0 {
		ve["user_id"] = "user_id is required"
	}
	if len(ve) > 0 {
		return ve
	}

	var digest *string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		d := string(hashed)
		digest = &d
	}
	return s.store.Update(ctx, id, req, digest)
}

// Delete removes a user on behalf of the acting superadmin.
func (s *UserService) Delete(ctx context.Context, id, actorID int) error {
	return s.store.Delete(ctx, id, actorID)
}

// Activities returns the audit view.
func (s *UserService) Activities(ctx context.Context) ([]model.UserActivity, error) {
	return s.store.Activities(ctx)
}

// EventStore is the slice of the store the event service needs.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	Detail(ctx context.Context, id int) (*model.Event, []model.Transaction, error)
	Create(ctx context.Context, req model.EventRequest, start, end time.Time) error
	Update(ctx context.Context, id int, req model.EventRequest, start, end time.Time) error
	Delete(ctx context.Context, id, actorID int) error
}

// EventService handles admin event management.
type EventService struct {
	store EventStore
}

// NewEventService constructs an EventService.
func NewEventService(store EventStore) *EventService {
	return &EventService{store: store}
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.store.List(ctx)
}

// Detail returns an event and its transactions.
func (s *EventService) Detail(ctx context.Context, id int) (*model.Event, []model.Transaction, error) {
	return s.store.Detail(ctx, id)
}

func validateEvent(req *model.EventRequest) (start, end time.Time, err error) {
	ve := model.ValidationError{}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		ve["name"] = "name is required"
	} else if len(req.Name) > 255 {
		ve["name"] = "name cannot exceed 255 characters"
	}
	if strings.TrimSpace(req.Description) == "" {
		ve["description"] = "description is required"
	}
	start, startErr := parseDate(req.StartDate)
	if startErr != nil {
		ve["start_date"] = startErr.Error()
	}
	end, endErr := parseDate(req.EndDate)
	if endErr != nil {
		ve["end_date"] = endErr.Error()
	}
	if strings.TrimSpace(req.Location) == "" {
		ve["location"] = "location is required"
	}
	if req.UserID <= 0 {
		ve["user_id"] = "user_id is required"
	}
	if len(ve) > 0 {
		return time.Time{}, time.Time{}, ve
	}
	return start, end, nil
}

// Create validates and adds an event.
func (s *EventService) Create(ctx context.Context, req model.EventRequest) error {
	start, end, err := validateEvent(&req)
	if err != nil {
		return err
	}
	return s.store.Create(ctx, req, start, end)
}

// Update validates and modifies an event.
func (s *EventService) Update(ctx context.Context, id int, req model.EventRequest) error {
	start, end, err := validateEvent(&req)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, id, req, start, end)
}

// Delete removes an event on behalf of the acting admin.
func (s *EventService) Delete(ctx context.Context, id, actorID int) error {
	return s.store.Delete(ctx, id, actorID)
}

// TicketTypeStore is the slice of the store the ticket type service needs.
type TicketTypeStore interface {
	List(ctx context.Context) ([]model.TicketType, error)
	Detail(ctx context.Context, id int) (*model.TicketType, []model.Transaction, error)
	Create(ctx context.Context, req model.TicketTypeRequest) error
	Update(ctx context.Context, id int, req model.TicketTypeRequest) error
	Delete(ctx context.Context, id, actorID int) error
}

// TicketTypeService handles admin ticket type management.
type TicketTypeService struct {
	store TicketTypeStore
}

// NewTicketTypeService constructs a TicketTypeService.
func NewTicketTypeService(store TicketTypeStore) *TicketTypeService {
	return &TicketTypeService{store: store}
}

// List returns all ticket types.
func (s *TicketTypeService) List(ctx context.Context) ([]model.TicketType, error) {
	return s.store.List(ctx)
}

// Detail returns a ticket type and its transactions.
func (s *TicketTypeService) Detail(ctx context.Context, id int) (*model.TicketType, []model.Transaction, error) {
	return s.store.Detail(ctx, id)
}

func validateTicketType(req *model.TicketTypeRequest, requireEvent bool) error {
	ve := model.ValidationError{}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		ve["name"] = "name is required"
	} else if len(req.Name) > 255 {
		ve["name"] = "name cannot exceed 255 characters"
	}
	if req.Price < 0 {
		ve["price"] = "price cannot be negative"
	}
	if req.Stock < 0 {
		ve["stock"] = "stock cannot be negative"
	}
	if req.MaxBuy <= 0 {
		ve["max_buy"] = "max_buy must be a positive integer"
	}
	if req.PlatformFee < 0 {
		ve["platform_fee"] = "platform_fee cannot be negative"
	}
	if requireEvent && req.EventID <= 0 {
		ve["event_id"] = "event_id is required"
	}
	if req.UserID <= 0 {
		ve["user_id"] = "user_id is required"
	}
	if len(ve) > 0 {
		return ve
	}
	return nil
}

// Create validates and adds a ticket type.
func (s *TicketTypeService) Create(ctx context.Context, req model.TicketTypeRequest) error {
	if err := validateTicketType(&req, true); err != nil {
		return err
	}
	return s.store.Create(ctx, req)
}

// Update validates and modifies a ticket type. The event binding is fixed at
// creation and not updatable.
func (s *TicketTypeService) Update(ctx context.Context, id int, req model.TicketTypeRequest) error {
	if err := validateTicketType(&req, false); err != nil {
		return err
	}
	return s.store.Update(ctx, id, req)
}

// Delete removes a ticket type on behalf of the acting admin.
func (s *TicketTypeService) Delete(ctx context.Context, id, actorID int) error {
	return s.store.Delete(ctx, id, actorID)
}
