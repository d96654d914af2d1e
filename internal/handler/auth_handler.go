package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sadokz/lamaitrise/internal/middleware"
	"github.com/sadokz/lamaitrise/internal/model"
)

const sessionCookieName = "session_id"

// AuthServiceInterface is the service surface the auth handler needs.
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentAdmin(ctx context.Context, sessionID string) (*model.Admin, *model.Session, error)
	SetEditMode(ctx context.Context, sessionID string, on bool) error
}

// AuthHandlerConfig holds the auth handler's cookie settings.
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // session cookie lifetime in seconds
}

// AuthHandler serves login, logout, session introspection and the edit-mode
// toggle.
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	EditMode bool   `json:"edit_mode"`
}

type editModeRequest struct {
	Enabled bool `json:"enabled"`
}

// Login checks the credentials and sets the session cookie.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("credentials", "email and password are required"))
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.ID, h.config.SessionMaxAge)
	writeJSON(w, http.StatusOK, map[string]bool{"edit_mode": session.EditMode})
}

// Logout destroys the session and clears the cookie. Clearing happens even
// when the store-side delete fails.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in admin and the edit-mode flag.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	admin, session, err := h.service.CurrentAdmin(r.Context(), cookie.Value)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:       admin.ID,
		Email:    admin.Email,
		EditMode: session.EditMode,
	})
}

// SetEditMode flips the session's inline-editing flag.
// PUT /auth/edit-mode
func (h *AuthHandler) SetEditMode(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req editModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SetEditMode(r.Context(), cookie.Value, req.Enabled); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"edit_mode": req.Enabled})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
