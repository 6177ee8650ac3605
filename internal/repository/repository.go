// Package repository is the capability layer over the database's stored
// procedures. All business rules (inventory decrement, payment transitions,
// redemption caps, session expiry) live in the procedures; this package only
// invokes them with pgx and translates their failures. It never implements
// read-then-write sequences of its own.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// BusinessError carries a business-rule violation raised by a stored
// procedure (duplicate email, insufficient stock, over-redemption). The
// message is the procedure's own and is passed through to the client.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// translate maps database-layer errors to the package's error taxonomy.
// RAISE EXCEPTION (P0001) and integrity violations (class 23) are what the
// procedures use to signal business-rule failures.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "P0001" || strings.HasPrefix(pgErr.Code, "23") {
			return &BusinessError{Message: pgErr.Message}
		}
	}
	return err
}
