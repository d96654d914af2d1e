package handler

import (
	"context"
	"net/http"

	"github.com/sadokz/lamaitrise/internal/middleware"
	"github.com/sadokz/lamaitrise/internal/model"
)

// TextServiceInterface is the service surface the text handler needs.
// *sitetext.Service satisfies it.
type TextServiceInterface interface {
	ListByPage(ctx context.Context, page string) ([]*model.SiteText, error)
	Save(ctx context.Context, key model.TextKey, draft string) (string, bool, error)
}

// TextSaveRecorder counts save outcomes. The metrics Collector satisfies it.
type TextSaveRecorder interface {
	RecordTextSave(changed bool)
}

// TextHandler serves the inline-editable texts.
type TextHandler struct {
	service  TextServiceInterface
	recorder TextSaveRecorder
}

// NewTextHandler creates a TextHandler.
func NewTextHandler(service TextServiceInterface, recorder TextSaveRecorder) *TextHandler {
	return &TextHandler{
		service:  service,
		recorder: recorder,
	}
}

type textResponse struct {
	Page    string `json:"page"`
	Section string `json:"section"`
	Key     string `json:"key"`
	Content string `json:"content"`
}

type saveTextRequest struct {
	Page    string `json:"page"`
	Section string `json:"section"`
	Key     string `json:"key"`
	Content string `json:"content"`
}

type saveTextResponse struct {
	Content string `json:"content"`
	Changed bool   `json:"changed"`
}

// ListByPage returns every saved text of one page. Keys the page never saved
// are absent; the caller renders its literal defaults for those.
// GET /api/texts?page=home
func (h *TextHandler) ListByPage(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("page", "required"))
		return
	}

	texts, err := h.service.ListByPage(r.Context(), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]textResponse, 0, len(texts))
	for _, t := range texts {
		out = append(out, textResponse{
			Page:    t.Page,
			Section: t.Section,
			Key:     t.Key,
			Content: t.Content,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"texts": out})
}

// Save persists one inline edit: sanitize, skip when nothing changed, upsert
// by the composite key.
// PUT /api/admin/texts
func (h *TextHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	key := model.TextKey{Page: req.Page, Section: req.Section, Key: req.Key}
	content, changed, err := h.service.Save(r.Context(), key, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.recorder.RecordTextSave(changed)
	writeJSON(w, http.StatusOK, saveTextResponse{Content: content, Changed: changed})
}
