// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sadokz/lamaitrise/internal/model"
)

const sessionCookieName = "session_id"

// contextKey is a type-safe key for request context values.
type contextKey string

var (
	adminIDContextKey   = contextKey("admin_id")
	sessionIDContextKey = contextKey("session_id")
	accessContextKey    = contextKey("access")
)

// AdminResolver resolves a session ID to the admin behind it. Defined as a
// subset of the auth service so the middleware does not depend on it.
type AdminResolver interface {
	CurrentAdmin(ctx context.Context, sessionID string) (*model.Admin, *model.Session, error)
}

// SessionAccess carries the ambient flags that gate inline editing. It is
// built from the session per request and discarded with it.
type SessionAccess struct {
	Admin    bool
	EditMode bool
}

// IsAdmin reports whether the request belongs to a signed-in admin.
func (a SessionAccess) IsAdmin() bool { return a.Admin }

// IsEditMode reports whether the session has inline editing switched on.
func (a SessionAccess) IsEditMode() bool { return a.EditMode }

// NewSessionMiddleware reads the session cookie and, when it resolves to a
// live admin session, injects the admin ID, session ID and access flags into
// the request context. Anonymous requests pass through with read-only access;
// rejecting them is RequireAdmin's job.
func NewSessionMiddleware(resolver AdminResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r.WithContext(
					context.WithValue(r.Context(), accessContextKey, SessionAccess{})))
				return
			}

			admin, session, err := resolver.CurrentAdmin(r.Context(), cookie.Value)
			if err != nil || admin == nil {
				if err != nil && !isUnauthorized(err) {
					slog.Error("failed to resolve session",
						slog.String("error", err.Error()),
					)
				}
				next.ServeHTTP(w, r.WithContext(
					context.WithValue(r.Context(), accessContextKey, SessionAccess{})))
				return
			}

			ctx := context.WithValue(r.Context(), adminIDContextKey, admin.ID)
			ctx = context.WithValue(ctx, sessionIDContextKey, session.ID)
			ctx = context.WithValue(ctx, accessContextKey, SessionAccess{
				Admin:    true,
				EditMode: session.EditMode,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose context carries no admin identity.
// Place it after NewSessionMiddleware on admin-only routes.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AdminIDFromContext(r.Context()); !ok {
			WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminIDFromContext returns the authenticated admin ID, if any.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDContextKey).(string)
	return id, ok && id != ""
}

// SessionIDFromContext returns the session ID behind the request, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDContextKey).(string)
	return id, ok && id != ""
}

// AccessFromContext returns the request's access flags. Requests that never
// passed the session middleware read as anonymous.
func AccessFromContext(ctx context.Context) SessionAccess {
	access, ok := ctx.Value(accessContextKey).(SessionAccess)
	if !ok {
		return SessionAccess{}
	}
	return access
}

// ContextWithAdmin injects an admin identity into a context. For tests and
// non-HTTP callers.
func ContextWithAdmin(ctx context.Context, adminID, sessionID string, editMode bool) context.Context {
	ctx = context.WithValue(ctx, adminIDContextKey, adminID)
	ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)
	return context.WithValue(ctx, accessContextKey, SessionAccess{Admin: true, EditMode: editMode})
}

// isUnauthorized reports whether the error is the expected stale-session
// rejection rather than an infrastructure failure.
func isUnauthorized(err error) bool {
	apiErr, ok := err.(*model.APIError)
	return ok && apiErr.Code == model.ErrCodeUnauthorized
}
