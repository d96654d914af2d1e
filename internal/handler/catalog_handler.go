package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sadokz/lamaitrise/internal/images"
	"github.com/sadokz/lamaitrise/internal/middleware"
	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/repository"
	"github.com/sadokz/lamaitrise/internal/security"
)

// DomainRepoInterface is the repository surface the domain handler needs.
type DomainRepoInterface interface {
	ListAll(ctx context.Context) ([]model.Domain, error)
	FindByID(ctx context.Context, id string) (*model.Domain, error)
	Create(ctx context.Context, d *model.Domain) error
	Update(ctx context.Context, d *model.Domain) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id string, dir repository.MoveDirection) error
}

// CompetenceRepoInterface is the repository surface the competence handler
// needs.
type CompetenceRepoInterface interface {
	ListAll(ctx context.Context) ([]model.Competence, error)
	FindByID(ctx context.Context, id string) (*model.Competence, error)
	Create(ctx context.Context, c *model.Competence) error
	Update(ctx context.Context, c *model.Competence) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id string, dir repository.MoveDirection) error
}

type catalogEntryResponse struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	ShortDescription string        `json:"short_description"`
	LongDescription  string        `json:"long_description,omitempty"`
	Position         int           `json:"position"`
	IsVisible        bool          `json:"is_visible"`
	Image            imageSpecView `json:"image"`
}

type catalogWriteRequest struct {
	Title            string           `json:"title"`
	ShortDescription string           `json:"short_description"`
	LongDescription  string           `json:"long_description"`
	IsVisible        *bool            `json:"is_visible"`
	Image            imageSpecPayload `json:"image"`
}

// DomainHandler serves the domains-of-activity catalog.
type DomainHandler struct {
	repo      DomainRepoInterface
	guard     security.URLGuardService
	sanitizer security.RichTextSanitizerService
}

// NewDomainHandler creates a DomainHandler.
func NewDomainHandler(repo DomainRepoInterface, guard security.URLGuardService, sanitizer security.RichTextSanitizerService) *DomainHandler {
	return &DomainHandler{repo: repo, guard: guard, sanitizer: sanitizer}
}

// List returns the visible domains in position order.
// GET /api/domains
func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	out := make([]catalogEntryResponse, 0, len(items))
	for _, d := range items {
		if !d.IsVisible {
			continue
		}
		out = append(out, toDomainResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// AdminList returns every domain, hidden ones included.
// GET /api/admin/domains
func (h *DomainHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	out := make([]catalogEntryResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDomainResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// Get returns one domain.
// GET /api/admin/domains/{id}
func (h *DomainHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if d == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("domain", id))
		return
	}
	writeJSON(w, http.StatusOK, toDomainResponse(*d))
}

// Create stores a new domain.
// POST /api/admin/domains
func (h *DomainHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalogWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d := &model.Domain{IsVisible: true}
	if err := applyCatalogWrite(h.guard, h.sanitizer, req, &d.Title, &d.ShortDescription, &d.LongDescription, &d.IsVisible, &d.PrimaryImage); err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.repo.Create(r.Context(), d); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDomainResponse(*d))
}

// Update rewrites a domain.
// PUT /api/admin/domains/{id}
func (h *DomainHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if d == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("domain", id))
		return
	}
	var req catalogWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := applyCatalogWrite(h.guard, h.sanitizer, req, &d.Title, &d.ShortDescription, &d.LongDescription, &d.IsVisible, &d.PrimaryImage); err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.repo.Update(r.Context(), d); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDomainResponse(*d))
}

// Delete removes a domain.
// DELETE /api/admin/domains/{id}
func (h *DomainHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move swaps the domain with its adjacent sibling. Boundary moves no-op.
// POST /api/admin/domains/{id}/move
func (h *DomainHandler) Move(w http.ResponseWriter, r *http.Request) {
	dir, ok := decodeMoveDirection(w, r)
	if !ok {
		return
	}
	if err := h.repo.Move(r.Context(), chi.URLParam(r, "id"), dir); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompetenceHandler serves the competences catalog.
type CompetenceHandler struct {
	repo      CompetenceRepoInterface
	guard     security.URLGuardService
	sanitizer security.RichTextSanitizerService
}

// NewCompetenceHandler creates a CompetenceHandler.
func NewCompetenceHandler(repo CompetenceRepoInterface, guard security.URLGuardService, sanitizer security.RichTextSanitizerService) *CompetenceHandler {
	return &CompetenceHandler{repo: repo, guard: guard, sanitizer: sanitizer}
}

// List returns the visible competences in position order.
// GET /api/competences
func (h *CompetenceHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	out := make([]catalogEntryResponse, 0, len(items))
	for _, c := range items {
		if !c.IsVisible {
			continue
		}
		out = append(out, toCompetenceResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// AdminList returns every competence, hidden ones included.
// GET /api/admin/competences
func (h *CompetenceHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	out := make([]catalogEntryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCompetenceResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// Get returns one competence.
// GET /api/admin/competences/{id}
func (h *CompetenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if c == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("competence", id))
		return
	}
	writeJSON(w, http.StatusOK, toCompetenceResponse(*c))
}

// Create stores a new competence.
// POST /api/admin/competences
func (h *CompetenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalogWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c := &model.Competence{IsVisible: true}
	if err := applyCatalogWrite(h.guard, h.sanitizer, req, &c.Title, &c.ShortDescription, &c.LongDescription, &c.IsVisible, &c.PrimaryImage); err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.repo.Create(r.Context(), c); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompetenceResponse(*c))
}

// Update rewrites a competence.
// PUT /api/admin/competences/{id}
func (h *CompetenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if c == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("competence", id))
		return
	}
	var req catalogWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := applyCatalogWrite(h.guard, h.sanitizer, req, &c.Title, &c.ShortDescription, &c.LongDescription, &c.IsVisible, &c.PrimaryImage); err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.repo.Update(r.Context(), c); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompetenceResponse(*c))
}

// Delete removes a competence.
// DELETE /api/admin/competences/{id}
func (h *CompetenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move swaps the competence with its adjacent sibling. Boundary moves no-op.
// POST /api/admin/competences/{id}/move
func (h *CompetenceHandler) Move(w http.ResponseWriter, r *http.Request) {
	dir, ok := decodeMoveDirection(w, r)
	if !ok {
		return
	}
	if err := h.repo.Move(r.Context(), chi.URLParam(r, "id"), dir); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeMoveDirection parses and validates a move payload.
func decodeMoveDirection(w http.ResponseWriter, r *http.Request) (repository.MoveDirection, bool) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return "", false
	}
	dir := repository.MoveDirection(req.Direction)
	if dir != repository.MoveUp && dir != repository.MoveDown {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("direction", "must be up or down"))
		return "", false
	}
	return dir, true
}

// applyCatalogWrite validates a catalog write payload onto an entry's fields.
// Domains and competences share the same shape.
func applyCatalogWrite(guard security.URLGuardService, sanitizer security.RichTextSanitizerService, req catalogWriteRequest, title, short, long *string, visible *bool, image *model.ImageSpec) error {
	if req.Title == "" {
		return model.NewValidationError("title", "required")
	}
	spec, err := req.Image.toSpec(guard)
	if err != nil {
		return err
	}
	*title = req.Title
	*short = req.ShortDescription
	*long = sanitizer.Sanitize(req.LongDescription)
	*image = spec
	if req.IsVisible != nil {
		*visible = *req.IsVisible
	}
	return nil
}

func toDomainResponse(d model.Domain) catalogEntryResponse {
	search := images.SearchText(d.Title, d.ShortDescription)
	return catalogEntryResponse{
		ID:               d.ID,
		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		LongDescription:  d.LongDescription,
		Position:         d.Position,
		IsVisible:        d.IsVisible,
		Image:            toSpecView(d.PrimaryImage, search, fallbackDefaultKey),
	}
}

func toCompetenceResponse(c model.Competence) catalogEntryResponse {
	search := images.SearchText(c.Title, c.ShortDescription)
	return catalogEntryResponse{
		ID:               c.ID,
		Title:            c.Title,
		ShortDescription: c.ShortDescription,
		LongDescription:  c.LongDescription,
		Position:         c.Position,
		IsVisible:        c.IsVisible,
		Image:            toSpecView(c.PrimaryImage, search, fallbackDefaultKey),
	}
}
