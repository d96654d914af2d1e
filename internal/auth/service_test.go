package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sadokz/lamaitrise/internal/model"
)

// mockAdminRepo is a function-field mock of repository.AdminRepository.
type mockAdminRepo struct {
	findByEmailFunc func(ctx context.Context, email string) (*model.Admin, error)
	findByIDFunc    func(ctx context.Context, id string) (*model.Admin, error)
	countFunc       func(ctx context.Context) (int, error)
	createFunc      func(ctx context.Context, admin *model.Admin) error
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockAdminRepo) Count(ctx context.Context) (int, error) {
	return m.countFunc(ctx)
}

func (m *mockAdminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return m.createFunc(ctx, admin)
}

// mockSessionRepo is a function-field mock of repository.SessionRepository.
type mockSessionRepo struct {
	createFunc      func(ctx context.Context, session *model.Session) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Session, error)
	setEditModeFunc func(ctx context.Context, id string, editMode bool) error
	deleteByIDFunc  func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return m.createFunc(ctx, session)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockSessionRepo) SetEditMode(ctx context.Context, id string, editMode bool) error {
	return m.setEditModeFunc(ctx, id, editMode)
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFunc(ctx, id)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return string(h)
}

func TestLoginIssuesSession(t *testing.T) {
	admin := &model.Admin{ID: "admin-1", Email: "a@example.com", PasswordHash: hashOf(t, "correct horse")}

	var created *model.Session
	svc := NewService(
		&mockAdminRepo{
			findByEmailFunc: func(_ context.Context, email string) (*model.Admin, error) {
				if email != "a@example.com" {
					return nil, nil
				}
				return admin, nil
			},
		},
		&mockSessionRepo{
			createFunc: func(_ context.Context, s *model.Session) error {
				created = s
				return nil
			},
		},
		ServiceConfig{SessionMaxAge: 3600},
	)

	session, err := svc.Login(context.Background(), "a@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.AdminID != "admin-1" {
		t.Errorf("AdminID = %q, want admin-1", session.AdminID)
	}
	if session.EditMode {
		t.Error("new sessions should start with edit mode off")
	}
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(session.ID))
	}
	if created == nil || created.ID != session.ID {
		t.Error("session was not persisted")
	}
}

func TestLoginRejectsUnknownAndWrongPassword(t *testing.T) {
	admin := &model.Admin{ID: "admin-1", Email: "a@example.com", PasswordHash: hashOf(t, "right")}

	svc := NewService(
		&mockAdminRepo{
			findByEmailFunc: func(_ context.Context, email string) (*model.Admin, error) {
				if email == "a@example.com" {
					return admin, nil
				}
				return nil, nil
			},
		},
		&mockSessionRepo{
			createFunc: func(_ context.Context, _ *model.Session) error {
				t.Fatal("no session should be created")
				return nil
			},
		},
		ServiceConfig{SessionMaxAge: 3600},
	)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown account", "nobody@example.com", "right"},
		{"wrong password", "a@example.com", "wrong"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidLogin {
				t.Errorf("err = %v, want INVALID_LOGIN", err)
			}
		})
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	var deleted string
	svc := NewService(&mockAdminRepo{}, &mockSessionRepo{
		deleteByIDFunc: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}, ServiceConfig{})

	if err := svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if deleted != "sess-1" {
		t.Errorf("deleted = %q, want sess-1", deleted)
	}

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Error("empty session ID should be rejected")
	}
}

func TestCurrentAdminResolvesSession(t *testing.T) {
	admin := &model.Admin{ID: "admin-1", Email: "a@example.com"}
	svc := NewService(
		&mockAdminRepo{
			findByIDFunc: func(_ context.Context, id string) (*model.Admin, error) {
				if id == "admin-1" {
					return admin, nil
				}
				return nil, nil
			},
		},
		&mockSessionRepo{
			findByIDFunc: func(_ context.Context, id string) (*model.Session, error) {
				if id == "sess-1" {
					return &model.Session{ID: "sess-1", AdminID: "admin-1", EditMode: true}, nil
				}
				return nil, nil
			},
		},
		ServiceConfig{},
	)

	got, session, err := svc.CurrentAdmin(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("CurrentAdmin failed: %v", err)
	}
	if got.ID != "admin-1" || !session.EditMode {
		t.Errorf("got admin %+v session %+v", got, session)
	}

	for _, id := range []string{"", "expired"} {
		_, _, err := svc.CurrentAdmin(context.Background(), id)
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthorized {
			t.Errorf("CurrentAdmin(%q) err = %v, want UNAUTHORIZED", id, err)
		}
	}
}

func TestSetEditModeRequiresLiveSession(t *testing.T) {
	var flipped bool
	svc := NewService(&mockAdminRepo{}, &mockSessionRepo{
		findByIDFunc: func(_ context.Context, id string) (*model.Session, error) {
			if id == "sess-1" {
				return &model.Session{ID: "sess-1", AdminID: "admin-1"}, nil
			}
			return nil, nil
		},
		setEditModeFunc: func(_ context.Context, id string, editMode bool) error {
			flipped = editMode
			return nil
		},
	}, ServiceConfig{})

	if err := svc.SetEditMode(context.Background(), "sess-1", true); err != nil {
		t.Fatalf("SetEditMode failed: %v", err)
	}
	if !flipped {
		t.Error("edit mode was not flipped on")
	}

	if err := svc.SetEditMode(context.Background(), "gone", true); err == nil {
		t.Error("stale session should be rejected")
	}
}

func TestBootstrapCreatesFirstAdminOnly(t *testing.T) {
	t.Run("creates when no account exists", func(t *testing.T) {
		var created *model.Admin
		svc := NewService(&mockAdminRepo{
			countFunc: func(_ context.Context) (int, error) { return 0, nil },
			createFunc: func(_ context.Context, a *model.Admin) error {
				created = a
				return nil
			},
		}, &mockSessionRepo{}, ServiceConfig{})

		if err := svc.Bootstrap(context.Background(), "boss@example.com", "s3cret"); err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}
		if created == nil || created.Email != "boss@example.com" {
			t.Fatalf("created = %+v", created)
		}
		if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")) != nil {
			t.Error("stored hash does not match the bootstrap password")
		}
	})

	t.Run("no-op when accounts exist", func(t *testing.T) {
		svc := NewService(&mockAdminRepo{
			countFunc: func(_ context.Context) (int, error) { return 1, nil },
			createFunc: func(_ context.Context, _ *model.Admin) error {
				t.Fatal("no admin should be created")
				return nil
			},
		}, &mockSessionRepo{}, ServiceConfig{})

		if err := svc.Bootstrap(context.Background(), "boss@example.com", "s3cret"); err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}
	})

	t.Run("no-op without credentials", func(t *testing.T) {
		svc := NewService(&mockAdminRepo{
			countFunc: func(_ context.Context) (int, error) {
				t.Fatal("count should not be called")
				return 0, nil
			},
		}, &mockSessionRepo{}, ServiceConfig{})

		if err := svc.Bootstrap(context.Background(), "", ""); err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}
	})
}
