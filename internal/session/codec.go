// Package session implements the delimited identity payload shared with the
// credential store. The payload is created at login, persisted alongside the
// session row, and handed back by the session-check procedure; the client
// only ever holds an opaque UUID token and never sees this format.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Payload layout: sess_<user_id>_<status>_<role>
// user_id sits at index 1 and role at index 3 after splitting on the
// delimiter. Encode and Decode must stay byte-compatible with whatever the
// store returns from its session-check procedure.
const (
	delimiter = "_"
	minParts  = 4

	userIDIndex = 1
	roleIndex   = 3
)

// ErrMalformedSession signals that a session payload does not have the
// expected shape. This is a store/codec disagreement, distinct from a
// session that is merely invalid or expired.
var ErrMalformedSession = errors.New("invalid session data format")

// Encode builds the identity payload stored with a session at login.
func Encode(userID, status int, role string) string {
	return fmt.Sprintf("sess%s%d%s%d%s%s", delimiter, userID, delimiter, status, delimiter, role)
}

// Decode extracts the user id and role from a session payload returned by
// the store. Payloads with fewer than the required fields, or a non-numeric
// user id, yield ErrMalformedSession.
func Decode(payload string) (userID int, role string, err error) {
	parts := strings.Split(payload, delimiter)
	if len(parts) < minParts {
		return 0, "", ErrMalformedSession
	}
	userID, err = strconv.Atoi(parts[userIDIndex])
	if err != nil {
		return 0, "", ErrMalformedSession
	}
	return userID, parts[roleIndex], nil
}
