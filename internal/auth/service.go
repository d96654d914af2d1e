// Package auth provides local password authentication and session management
// for administrator accounts.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/repository"
)

// ServiceConfig holds the authentication service settings.
type ServiceConfig struct {
	SessionMaxAge int // session lifetime in seconds
}

// Service implements login, logout and the edit-mode toggle.
type Service struct {
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService creates a Service.
func NewService(
	adminRepo repository.AdminRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// dummyHash is a bcrypt hash of an unguessable value, used to equalize the
// cost of login attempts against unknown accounts.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Login checks the credentials and issues a session. Unknown accounts and
// wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil {
		// Burn a comparison so absent accounts cost the same as wrong
		// passwords.
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, model.NewInvalidLoginError()
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, model.NewInvalidLoginError()
	}

	session, err := s.createSession(ctx, admin.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("admin logged in",
		slog.String("admin_id", admin.ID),
		slog.String("session_id", session.ID),
	)
	return session, nil
}

// Logout destroys the session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("admin logged out", slog.String("session_id", sessionID))
	return nil
}

// CurrentAdmin resolves a session ID to the admin behind it, together with
// the session itself so callers can read the edit-mode flag.
func (s *Service) CurrentAdmin(ctx context.Context, sessionID string) (*model.Admin, *model.Session, error) {
	if sessionID == "" {
		return nil, nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil, model.NewUnauthorizedError()
	}

	admin, err := s.adminRepo.FindByID(ctx, session.AdminID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil {
		return nil, nil, model.NewUnauthorizedError()
	}
	return admin, session, nil
}

// SetEditMode flips the inline-editing flag on the session.
func (s *Service) SetEditMode(ctx context.Context, sessionID string, on bool) error {
	if sessionID == "" {
		return model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return model.NewUnauthorizedError()
	}

	if err := s.sessionRepo.SetEditMode(ctx, sessionID, on); err != nil {
		return fmt.Errorf("failed to update edit mode: %w", err)
	}
	return nil
}

// createSession issues and persists a new session.
func (s *Service) createSession(ctx context.Context, adminID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		AdminID:   adminID,
		EditMode:  false,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Bootstrap creates the first admin account from configuration when none
// exists yet. It is a no-op when accounts exist or credentials are unset.
func (s *Service) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := &model.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	slog.Info("bootstrap admin created", slog.String("email", email))
	return nil
}
