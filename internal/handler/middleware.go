package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/loket-mbc/ticketing-api/internal/model"
	"github.com/loket-mbc/ticketing-api/internal/session"
)

// SessionHeader is the request header carrying the opaque session token on
// protected routes.
const SessionHeader = "Session-ID"

// SessionStore is the session-check capability the middleware depends on.
// It is re-queried on every request; session validity is never cached in
// process.
type SessionStore interface {
	CheckSession(ctx context.Context, sessionID string) (bool, string, error)
}

type identityKey struct{}

// WithIdentity attaches the authenticated principal to the context.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the authenticated principal set by SessionAuth.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(model.Identity)
	return id, ok
}

// SessionAuth returns middleware that validates the session token and
// optionally enforces a required role. Roles match exactly: an admin
// session does not satisfy a superadmin requirement. An empty requiredRole
// admits any valid session.
//
// Distinct failures get distinct statuses: a missing or invalid token is
// 401, a wrong role is 403, and a session payload the codec cannot decode
// is 400 so operators can tell corrupt session state from plain expiry.
func SessionAuth(store SessionStore, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				writeError(w, http.StatusUnauthorized, "session id is required")
				return
			}

			valid, payload, err := store.CheckSession(r.Context(), sessionID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to check session")
				return
			}
			if !valid {
				writeError(w, http.StatusUnauthorized, "session is invalid or expired")
				return
			}

			userID, role, err := session.Decode(payload)
			if err != nil {
				writeError(w, http.StatusBadRequest, session.ErrMalformedSession.Error())
				return
			}

			if requiredRole != "" && role != requiredRole {
				writeError(w, http.StatusForbidden, "unauthorized role")
				return
			}

			ctx := WithIdentity(r.Context(), model.Identity{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logger is a structured access log middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("%s %s %d %dB %s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

// CORS applies permissive CORS headers and answers preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
