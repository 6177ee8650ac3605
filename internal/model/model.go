// Package model defines the core domain types for the ticketing platform.
package model

import (
	"sort"
	"strings"
	"time"
)

// Roles recognised by the authorization layer. Route access is gated by
// exact match; admin does not imply superadmin.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User represents a platform account. PasswordDigest is only populated by
// the credential lookup used during login and never serialised.
type User struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PasswordDigest string `json:"-"`
	Role           string `json:"role"`
	Status         int    `json:"status"`
}

// Identity is the authenticated principal attached to a request after the
// session middleware has validated and decoded the session payload.
type Identity struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}

// SessionCheck is the outcome of validating a session token against the
// store. UserID and Role are only meaningful when Valid is true.
type SessionCheck struct {
	Valid  bool   `json:"valid_session"`
	UserID int    `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Event is a bookable event owned by an admin user.
type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	OwnerUserID int       `json:"owner_user_id"`
}

// TicketType is a purchasable ticket category for an event. Stock is the
// remaining purchasable quantity; the store decrements it atomically.
type TicketType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	MaxBuy      int    `json:"max_buy"`
	PlatformFee int    `json:"platform_fee"`
	EventID     int    `json:"event_id"`
}

// Transaction is a ticket purchase as reported by the store's search and
// detail procedures.
type Transaction struct {
	TicketID       string     `json:"ticket_id"`
	UserName       string     `json:"user_name"`
	TicketTypeName string     `json:"ticket_type_name"`
	EventName      string     `json:"event_name"`
	Amount         int        `json:"amount"`
	PaymentMethod  string     `json:"payment_method"`
	PaymentStatus  string     `json:"payment_status"`
	ExternalID     string     `json:"external_id"`
	RedeemedAmount int        `json:"redeemed_amount"`
	BarcodeURL     string     `json:"barcode_url,omitempty"`
	BoughtAt       *time.Time `json:"bought_at,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

// UserActivity is a row of the store's user-activity audit view.
type UserActivity struct {
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Activity  string    `json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Request payloads ─────────────────────────────────────────────────────────

// RegisterRequest is the payload for self-service registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogoutRequest carries the session to invalidate.
type LogoutRequest struct {
	SessionID string `json:"session_id"`
}

// PurchaseRequest is the payload for buying tickets of one type.
type PurchaseRequest struct {
	TicketAmount  int    `json:"ticket_amount"`
	BasePrice     int    `json:"base_price"`
	UserID        int    `json:"user_id"`
	TicketTypeID  int    `json:"ticket_type_id"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
}

// RedeemRequest is the payload for redeeming part of a purchased ticket at
// the venue gate.
type RedeemRequest struct {
	TicketID       string  `json:"ticket_id"`
	RedeemedAmount int     `json:"redeemed_amount"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	UserID         int     `json:"user_id"`
}

// PaymentStatusRequest is the payment-gateway callback payload.
type PaymentStatusRequest struct {
	Status     string `json:"status"`
	ExternalID string `json:"external_id"`
}

// TransactionFilter holds the optional search filters for the transaction
// index. Nil fields are passed to the store as NULL and ignored there.
type TransactionFilter struct {
	TicketID       *string `json:"ticket_id"`
	UserName       *string `json:"user_name"`
	TicketTypeName *string `json:"ticket_type_name"`
	EventName      *string `json:"event_name"`
	PaymentMethod  *string `json:"payment_method"`
	PaymentStatus  *string `json:"payment_status"`
	BuyStartDate   *string `json:"buy_start_date"`
	BuyEndDate     *string `json:"buy_end_date"`
	PayStartDate   *string `json:"pay_start_date"`
	PayEndDate     *string `json:"pay_end_date"`
}

// CreateUserRequest is the superadmin payload for adding a user with an
// explicit role. CreatorID is the acting superadmin, recorded for audit.
type CreateUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CreatorID int    `json:"creator_id"`
}

// UpdateUserRequest is the superadmin payload for updating a user.
// Password is optional; empty keeps the stored digest.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	UserID   int    `json:"user_id"`
}

// EventRequest is the admin payload for creating or updating an event.
// Dates are accepted as RFC3339 or plain YYYY-MM-DD.
type EventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
	UserID      int    `json:"user_id"`
}

// TicketTypeRequest is the admin payload for creating or updating a ticket
// type.
type TicketTypeRequest struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	MaxBuy      int    `json:"max_buy"`
	PlatformFee int    `json:"platform_fee"`
	EventID     int    `json:"event_id"`
	UserID      int    `json:"user_id"`
}

// ─── Responses and errors ─────────────────────────────────────────────────────

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the standard JSON success envelope for mutations.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the freshly minted session token.
type LoginResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ValidationError collects per-field validation failures. It is returned by
// services before any store call is made.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
