package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sadokz/lamaitrise/internal/catalog"
	"github.com/sadokz/lamaitrise/internal/images"
	"github.com/sadokz/lamaitrise/internal/middleware"
	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/repository"
	"github.com/sadokz/lamaitrise/internal/security"
)

// fallbackDefaultKey backstops the keyword resolver for every catalog entity.
const fallbackDefaultKey = "default"

// ReferenceRepoInterface is the repository surface the reference handler
// needs. repository.ReferenceRepository satisfies it.
type ReferenceRepoInterface interface {
	ListAll(ctx context.Context) ([]model.Reference, error)
	FindByID(ctx context.Context, id string) (*model.Reference, error)
	Create(ctx context.Context, ref *model.Reference) error
	Update(ctx context.Context, ref *model.Reference) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id string, dir repository.MoveDirection) error
	ListImages(ctx context.Context, ownerID string) ([]model.SecondaryImage, error)
	InsertImage(ctx context.Context, img *model.SecondaryImage) error
	UpdateImage(ctx context.Context, img *model.SecondaryImage) error
	DeleteImage(ctx context.Context, id string) error
}

// DomainLister supplies the domain titles that drive category grouping.
type DomainLister interface {
	ListAll(ctx context.Context) ([]model.Domain, error)
}

// ReconcileRecorder counts reconciliation step outcomes. The metrics
// Collector satisfies it.
type ReconcileRecorder interface {
	RecordReconcileStep(kind string, success bool)
}

// ReferenceHandler serves the references catalog.
type ReferenceHandler struct {
	repo      ReferenceRepoInterface
	domains   DomainLister
	guard     security.URLGuardService
	sanitizer security.RichTextSanitizerService
	recorder  ReconcileRecorder
}

// NewReferenceHandler creates a ReferenceHandler.
func NewReferenceHandler(repo ReferenceRepoInterface, domains DomainLister, guard security.URLGuardService, sanitizer security.RichTextSanitizerService, recorder ReconcileRecorder) *ReferenceHandler {
	return &ReferenceHandler{
		repo:      repo,
		domains:   domains,
		guard:     guard,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

type secondaryImageResponse struct {
	ID       string        `json:"id"`
	Position int           `json:"position"`
	Image    imageSpecView `json:"image"`
}

type referenceResponse struct {
	ID               string                   `json:"id"`
	Title            string                   `json:"title"`
	ShortDescription string                   `json:"short_description"`
	LongDescription  string                   `json:"long_description,omitempty"`
	Category         string                   `json:"category,omitempty"`
	Position         int                      `json:"position"`
	IsVisible        bool                     `json:"is_visible"`
	IsFeatured       bool                     `json:"is_featured"`
	DateText         string                   `json:"date_text,omitempty"`
	ParsedYear       int                      `json:"parsed_year"`
	Location         string                   `json:"location,omitempty"`
	ExternalRef      string                   `json:"external_ref,omitempty"`
	Image            imageSpecView            `json:"image"`
	Images           []secondaryImageResponse `json:"images"`
}

type referenceGroupResponse struct {
	Category string              `json:"category"`
	Items    []referenceResponse `json:"items"`
}

type referenceWriteRequest struct {
	Title            string           `json:"title"`
	ShortDescription string           `json:"short_description"`
	LongDescription  string           `json:"long_description"`
	Category         string           `json:"category"`
	IsVisible        *bool            `json:"is_visible"`
	IsFeatured       *bool            `json:"is_featured"`
	DateText         string           `json:"date_text"`
	Location         string           `json:"location"`
	ExternalRef      string           `json:"external_ref"`
	Image            imageSpecPayload `json:"image"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type activeSectionRequest struct {
	ViewportHeight float64 `json:"viewport_height"`
	Sections       []struct {
		Category string  `json:"category"`
		Top      float64 `json:"top"`
		Bottom   float64 `json:"bottom"`
	} `json:"sections"`
}

// List returns the visible catalog grouped by category, plus per-category
// counts including empty domains.
// GET /api/references
func (h *ReferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	titles, err := h.visibleDomainTitles(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	visible := catalog.Visible(items)
	groups := catalog.GroupByCategory(visible, titles)

	out := make([]referenceGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, referenceGroupResponse{
			Category: g.Category,
			Items:    toReferenceResponses(g.Items),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"groups": out,
		"counts": catalog.Counts(visible, titles),
	})
}

// Featured returns the visible featured subset for the home page.
// GET /api/references/featured
func (h *ReferenceHandler) Featured(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": toReferenceResponses(catalog.FeaturedVisible(items)),
	})
}

// ActiveSection resolves which category section should read as active from
// the geometry the page reports while scrolling.
// POST /api/references/active-section
func (h *ReferenceHandler) ActiveSection(w http.ResponseWriter, r *http.Request) {
	var req activeSectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rects := make([]catalog.SectionRect, 0, len(req.Sections))
	for _, s := range req.Sections {
		rects = append(rects, catalog.SectionRect{Category: s.Category, Top: s.Top, Bottom: s.Bottom})
	}

	active, err := catalog.ActiveSection(rects, req.ViewportHeight)
	if err != nil {
		handleServiceError(w, model.NewInvalidGeometryError(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": active})
}

// AdminList returns the full catalog, hidden items included, in the same
// (year desc, position asc) order the public list uses.
// GET /api/admin/references
func (h *ReferenceHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toReferenceResponses(items)})
}

// Get returns one reference with its child images.
// GET /api/admin/references/{id}
func (h *ReferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ref, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if ref == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("reference", id))
		return
	}
	writeJSON(w, http.StatusOK, toReferenceResponse(*ref))
}

// Create stores a new reference.
// POST /api/admin/references
func (h *ReferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req referenceWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ref, err := h.applyWriteRequest(&model.Reference{IsVisible: true}, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.repo.Create(r.Context(), ref); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReferenceResponse(*ref))
}

// Update rewrites a reference's own fields.
// PUT /api/admin/references/{id}
func (h *ReferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("reference", id))
		return
	}

	var req referenceWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ref, err := h.applyWriteRequest(existing, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.repo.Update(r.Context(), ref); err != nil {
		handleServiceError(w, err)
		return
	}
	ref.ParsedYear = catalog.ParseYear(ref.DateText)
	writeJSON(w, http.StatusOK, toReferenceResponse(*ref))
}

// Delete removes a reference; child images go with it.
// DELETE /api/admin/references/{id}
func (h *ReferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move swaps the reference with its adjacent sibling. Boundary moves no-op.
// POST /api/admin/references/{id}/move
func (h *ReferenceHandler) Move(w http.ResponseWriter, r *http.Request) {
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

type reconcileImageEntry struct {
	ID    string           `json:"id,omitempty"`
	Image imageSpecPayload `json:"image"`
}

type reconcileRequest struct {
	Images []reconcileImageEntry `json:"images"`
}

type reconcileStepResult struct {
	Kind    string `json:"kind"`
	ImageID string `json:"image_id,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// SaveImages reconciles the submitted image list against the persisted child
// collection: delete rows absent from the submission, then insert or update
// the rest in order. Steps run sequentially without a transaction; a failure
// stops the run and the response names the failed step, with earlier steps
// already committed.
// PUT /api/admin/references/{id}/images
func (h *ReferenceHandler) SaveImages(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "id")
	owner, err := h.repo.FindByID(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if owner == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("reference", ownerID))
		return
	}

	var req reconcileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	persisted, err := h.repo.ListImages(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	persistedIDs := make(map[string]bool, len(persisted))
	for _, img := range persisted {
		persistedIDs[img.ID] = true
	}

	drafts := make([]images.Draft, 0, len(req.Images))
	for i, entry := range req.Images {
		spec, err := entry.Image.toSpec(h.guard)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		ref := model.PendingRef(uuid.NewString())
		if entry.ID != "" {
			if !persistedIDs[entry.ID] {
				middleware.WriteErrorResponse(w, http.StatusBadRequest,
					model.NewValidationError("images", "unknown image id "+entry.ID))
				return
			}
			ref = model.PersistedRef(entry.ID)
		}
		drafts = append(drafts, images.Draft{Ref: ref, Spec: spec, Position: i})
	}

	plan := images.BuildPlan(ownerID, persisted, images.EditSetFromDrafts(drafts))
	results, applyErr := images.ApplyPlan(r.Context(), h.repo, plan)

	log := make([]reconcileStepResult, 0, len(results))
	for _, res := range results {
		h.recorder.RecordReconcileStep(string(res.Step.Kind), res.Err == nil)
		step := reconcileStepResult{
			Kind:    string(res.Step.Kind),
			ImageID: res.Step.ImageID,
			OK:      res.Err == nil,
		}
		if res.Err != nil {
			step.Error = res.Err.Error()
		}
		log = append(log, step)
	}

	if applyErr != nil {
		var apiErr *model.APIError
		if !errors.As(applyErr, &apiErr) {
			apiErr = model.NewPartialFailureError(applyErr.Error())
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": middleware.ErrorResponseBody{
				Code:     apiErr.Code,
				Message:  apiErr.Message,
				Category: apiErr.Category,
				Action:   apiErr.Action,
			},
			"steps": log,
		})
		return
	}

	refreshed, err := h.repo.ListImages(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"steps":  log,
		"images": toSecondaryImageResponses(refreshed),
	})
}

// visibleDomainTitles returns the visible domain titles in position order.
func (h *ReferenceHandler) visibleDomainTitles(ctx context.Context) ([]string, error) {
	domains, err := h.domains.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(domains))
	for _, d := range domains {
		if d.IsVisible {
			titles = append(titles, d.Title)
		}
	}
	return titles, nil
}

func toReferenceResponse(ref model.Reference) referenceResponse {
	search := images.SearchText(ref.Title, ref.ShortDescription, ref.Category)
	return referenceResponse{
		ID:               ref.ID,
		Title:            ref.Title,
		ShortDescription: ref.ShortDescription,
		LongDescription:  ref.LongDescription,
		Category:         ref.Category,
		Position:         ref.Position,
		IsVisible:        ref.IsVisible,
		IsFeatured:       ref.IsFeatured,
		DateText:         ref.DateText,
		ParsedYear:       ref.ParsedYear,
		Location:         ref.Location,
		ExternalRef:      ref.ExternalRef,
		Image:            toSpecView(ref.PrimaryImage, search, fallbackDefaultKey),
		Images:           toSecondaryImageResponsesWithSearch(ref.Images, search),
	}
}

func toReferenceResponses(items []model.Reference) []referenceResponse {
	out := make([]referenceResponse, 0, len(items))
	for _, ref := range items {
		out = append(out, toReferenceResponse(ref))
	}
	return out
}

func toSecondaryImageResponses(imgs []model.SecondaryImage) []secondaryImageResponse {
	return toSecondaryImageResponsesWithSearch(imgs, "")
}

func toSecondaryImageResponsesWithSearch(imgs []model.SecondaryImage, search string) []secondaryImageResponse {
	out := make([]secondaryImageResponse, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, secondaryImageResponse{
			ID:       img.ID,
			Position: img.Position,
			Image:    toSpecView(img.Spec, search, fallbackDefaultKey),
		})
	}
	return out
}

// applyWriteRequest validates a write payload onto a reference.
func (h *ReferenceHandler) applyWriteRequest(ref *model.Reference, req referenceWriteRequest) (*model.Reference, error) {
	if req.Title == "" {
		return nil, model.NewValidationError("title", "required")
	}
	spec, err := req.Image.toSpec(h.guard)
	if err != nil {
		return nil, err
	}

	ref.Title = req.Title
	ref.ShortDescription = req.ShortDescription
	ref.LongDescription = h.sanitizer.Sanitize(req.LongDescription)
	ref.Category = req.Category
	ref.DateText = req.DateText
	ref.Location = req.Location
	ref.ExternalRef = req.ExternalRef
	ref.PrimaryImage = spec
	if req.IsVisible != nil {
		ref.IsVisible = *req.IsVisible
	}
	if req.IsFeatured != nil {
		ref.IsFeatured = *req.IsFeatured
	}
	return ref, nil
}
