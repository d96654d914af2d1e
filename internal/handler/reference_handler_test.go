package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/repository"
	"github.com/sadokz/lamaitrise/internal/security"
)

// newReferenceRouter mounts the handler the way the real router does, so
// chi's URL params resolve in tests.
func newReferenceRouter(h *ReferenceHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/references", h.List)
	r.Get("/api/references/featured", h.Featured)
	r.Post("/api/references/active-section", h.ActiveSection)
	r.Get("/api/admin/references/{id}", h.Get)
	r.Post("/api/admin/references", h.Create)
	r.Put("/api/admin/references/{id}", h.Update)
	r.Post("/api/admin/references/{id}/move", h.Move)
	r.Put("/api/admin/references/{id}/images", h.SaveImages)
	return r
}

func testDomainLister(titles ...string) *mockDomainRepo {
	domains := make([]model.Domain, 0, len(titles))
	for i, title := range titles {
		domains = append(domains, model.Domain{ID: title, Title: title, Position: i, IsVisible: true})
	}
	return &mockDomainRepo{
		listAllFunc: func(_ context.Context) ([]model.Domain, error) {
			return domains, nil
		},
	}
}

func TestReferenceHandler_ListGroupsAndCounts(t *testing.T) {
	repo := &mockReferenceRepo{
		listAllFunc: func(_ context.Context) ([]model.Reference, error) {
			return []model.Reference{
				{ID: "r1", Title: "Pont de Sion", Category: "Génie civil", IsVisible: true},
				{ID: "r2", Title: "Réseau MT", Category: "Électricité", IsVisible: true},
				{ID: "r3", Title: "Chantier caché", Category: "Génie civil", IsVisible: false},
			}, nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister("Génie civil", "Électricité", "Géomatique"), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/api/references", nil)
	rec := httptest.NewRecorder()
	newReferenceRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Groups []referenceGroupResponse `json:"groups"`
		Counts map[string]int           `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Counts["all"] != 2 {
		t.Errorf(`counts["all"] = %d, want 2 (hidden items excluded)`, body.Counts["all"])
	}
	if body.Counts["Géomatique"] != 0 {
		t.Errorf(`counts["Géomatique"] = %d, want 0 (empty domain still counted)`, body.Counts["Géomatique"])
	}
	for _, g := range body.Groups {
		for _, item := range g.Items {
			if item.ID == "r3" {
				t.Error("hidden reference leaked into the public list")
			}
		}
	}
}

func TestReferenceHandler_Featured(t *testing.T) {
	repo := &mockReferenceRepo{
		listAllFunc: func(_ context.Context) ([]model.Reference, error) {
			return []model.Reference{
				{ID: "r1", Title: "A", IsVisible: true, IsFeatured: true},
				{ID: "r2", Title: "B", IsVisible: true, IsFeatured: false},
				{ID: "r3", Title: "C", IsVisible: false, IsFeatured: true},
			}, nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/api/references/featured", nil)
	rec := httptest.NewRecorder()
	newReferenceRouter(h).ServeHTTP(rec, req)

	var body struct {
		Items []referenceResponse `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != "r1" {
		t.Errorf("featured = %+v, want only r1", body.Items)
	}
}

func TestReferenceHandler_ActiveSection(t *testing.T) {
	h := NewReferenceHandler(&mockReferenceRepo{}, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})
	router := newReferenceRouter(h)

	t.Run("resolves the half-visible section", func(t *testing.T) {
		payload := `{"viewport_height":800,"sections":[
			{"category":"Génie civil","top":-900,"bottom":-100},
			{"category":"Électricité","top":-100,"bottom":700}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/references/active-section", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body["active"] != "Électricité" {
			t.Errorf("active = %q, want Électricité", body["active"])
		}
	})

	t.Run("rejects empty geometry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/references/active-section",
			strings.NewReader(`{"viewport_height":0,"sections":[]}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body["code"] != model.ErrCodeInvalidGeometry {
			t.Errorf("code = %q, want %q", body["code"], model.ErrCodeInvalidGeometry)
		}
	})
}

func TestReferenceHandler_GetNotFound(t *testing.T) {
	repo := &mockReferenceRepo{
		findByIDFunc: func(_ context.Context, _ string) (*model.Reference, error) {
			return nil, nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/references/missing", nil)
	rec := httptest.NewRecorder()
	newReferenceRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestReferenceHandler_CreateValidation(t *testing.T) {
	guard := &mockURLGuard{
		validateFunc: func(rawURL string) error {
			if strings.Contains(rawURL, "169.254.") {
				return errors.New("blocked IP address")
			}
			return nil
		},
	}
	var created *model.Reference
	repo := &mockReferenceRepo{
		createFunc: func(_ context.Context, ref *model.Reference) error {
			created = ref
			return nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister(), guard, security.NewRichTextSanitizer(), &mockMetrics{})
	router := newReferenceRouter(h)

	tests := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{"valid", `{"title":"Pont","image":{"mode":"auto"}}`, http.StatusCreated},
		{"missing title", `{"title":""}`, http.StatusBadRequest},
		{"blocked image URL", `{"title":"Pont","image":{"mode":"url","url":"http://169.254.169.254/x.jpg"}}`, http.StatusBadRequest},
		{"url mode without url", `{"title":"Pont","image":{"mode":"url"}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/references", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if created == nil || !created.IsVisible {
		t.Error("created reference should default to visible")
	}
}

// Successive creates must come back with distinct, increasing positions: the
// store appends at the end of the collection and the handler echoes what the
// store assigned instead of a position of its own.
func TestReferenceHandler_CreateEchoesAssignedPosition(t *testing.T) {
	next := 0
	repo := &mockReferenceRepo{
		createFunc: func(_ context.Context, ref *model.Reference) error {
			if ref.Position != 0 {
				t.Errorf("handler pre-assigned position %d, want store to decide", ref.Position)
			}
			ref.Position = next
			next++
			return nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})
	router := newReferenceRouter(h)

	for want := 0; want < 3; want++ {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/references",
			strings.NewReader(`{"title":"Pont","image":{"mode":"auto"}}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
		}
		var body referenceResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Position != want {
			t.Errorf("created position = %d, want %d", body.Position, want)
		}
	}
}

func TestReferenceHandler_MoveRejectsUnknownDirection(t *testing.T) {
	moved := false
	repo := &mockReferenceRepo{
		moveFunc: func(_ context.Context, _ string, _ repository.MoveDirection) error {
			moved = true
			return nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})
	router := newReferenceRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/references/r1/move",
		strings.NewReader(`{"direction":"sideways"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if moved {
		t.Error("repo.Move called for an invalid direction")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/references/r1/move",
		strings.NewReader(`{"direction":"up"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if !moved {
		t.Error("repo.Move not called for a valid direction")
	}
}

func TestReferenceHandler_SaveImagesReconciles(t *testing.T) {
	persisted := []model.SecondaryImage{
		{ID: "img-a", OwnerID: "r1", Position: 0, Spec: model.ImageSpec{Mode: model.ImageModeAuto}},
		{ID: "img-b", OwnerID: "r1", Position: 1, Spec: model.ImageSpec{Mode: model.ImageModeAuto}},
	}
	var deleted, inserted, updated []string
	repo := &mockReferenceRepo{
		findByIDFunc: func(_ context.Context, id string) (*model.Reference, error) {
			return &model.Reference{ID: id, Title: "Pont"}, nil
		},
		listImagesFunc: func(_ context.Context, _ string) ([]model.SecondaryImage, error) {
			return persisted, nil
		},
		deleteImageFunc: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
		insertImageFunc: func(_ context.Context, img *model.SecondaryImage) error {
			inserted = append(inserted, img.ID)
			return nil
		},
		updateImageFunc: func(_ context.Context, img *model.SecondaryImage) error {
			updated = append(updated, img.ID)
			return nil
		},
	}
	recorder := &mockMetrics{}
	h := NewReferenceHandler(repo, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), recorder)

	// Keep img-b first, drop img-a, append one new upload.
	payload := `{"images":[
		{"id":"img-b","image":{"mode":"auto"}},
		{"image":{"mode":"upload","uploaded_url":"/uploads/new.jpg"}}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/references/r1/images", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	newReferenceRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(deleted) != 1 || deleted[0] != "img-a" {
		t.Errorf("deleted = %v, want [img-a]", deleted)
	}
	if len(updated) != 1 || updated[0] != "img-b" {
		t.Errorf("updated = %v, want [img-b]", updated)
	}
	if len(inserted) != 1 {
		t.Errorf("inserted = %v, want one new image", inserted)
	}
	if len(recorder.reconcileSteps) != 3 {
		t.Errorf("recorded steps = %v, want 3", recorder.reconcileSteps)
	}
}

func TestReferenceHandler_SaveImagesStopsAtFirstFailure(t *testing.T) {
	persisted := []model.SecondaryImage{
		{ID: "img-a", OwnerID: "r1", Position: 0, Spec: model.ImageSpec{Mode: model.ImageModeAuto}},
	}
	var updateCalled bool
	repo := &mockReferenceRepo{
		findByIDFunc: func(_ context.Context, id string) (*model.Reference, error) {
			return &model.Reference{ID: id, Title: "Pont"}, nil
		},
		listImagesFunc: func(_ context.Context, _ string) ([]model.SecondaryImage, error) {
			return persisted, nil
		},
		insertImageFunc: func(_ context.Context, _ *model.SecondaryImage) error {
			return errors.New("insert failed")
		},
		updateImageFunc: func(_ context.Context, _ *model.SecondaryImage) error {
			updateCalled = true
			return nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})

	// New image first, then the kept one: the failing insert must stop the
	// run before the update.
	payload := `{"images":[
		{"image":{"mode":"upload","uploaded_url":"/uploads/new.jpg"}},
		{"id":"img-a","image":{"mode":"auto"}}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/references/r1/images", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	newReferenceRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if updateCalled {
		t.Error("update ran after the failed insert")
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
		Steps []reconcileStepResult `json:"steps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error.Code != model.ErrCodePartialFailure {
		t.Errorf("code = %q, want %q", body.Error.Code, model.ErrCodePartialFailure)
	}
	last := body.Steps[len(body.Steps)-1]
	if last.OK || last.Error == "" {
		t.Errorf("last step = %+v, want a named failure", last)
	}
}

func TestReferenceHandler_SaveImagesRejectsUnknownID(t *testing.T) {
	repo := &mockReferenceRepo{
		findByIDFunc: func(_ context.Context, id string) (*model.Reference, error) {
			return &model.Reference{ID: id, Title: "Pont"}, nil
		},
		listImagesFunc: func(_ context.Context, _ string) ([]model.SecondaryImage, error) {
			return nil, nil
		},
	}
	h := NewReferenceHandler(repo, testDomainLister(), &mockURLGuard{}, security.NewRichTextSanitizer(), &mockMetrics{})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/references/r1/images",
		strings.NewReader(`{"images":[{"id":"ghost","image":{"mode":"auto"}}]}`))
	rec := httptest.NewRecorder()
	newReferenceRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
