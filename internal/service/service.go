// Package service implements input validation and orchestration between the
// HTTP handlers and the stored-procedure capability layer. Services validate
// at the boundary, then delegate the whole read-check-write sequence to a
// single atomic store call.
package service

import (
	"fmt"
	"strings"
	"time"
)

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}

// parseDate accepts RFC3339 or a plain calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", s)
}
