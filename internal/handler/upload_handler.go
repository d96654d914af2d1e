package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sadokz/lamaitrise/internal/middleware"
	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/storage"
)

// maxMultipartMemory bounds the in-memory part of multipart parsing; larger
// files spill to temp files.
const maxMultipartMemory = 8 << 20

// UploadServiceInterface is the upload surface the handler needs.
// storage.UploadService satisfies it.
type UploadServiceInterface interface {
	Upload(ctx context.Context, r io.Reader, declaredSize int64) (*storage.UploadResult, error)
	Delete(ctx context.Context, name string) error
}

// UploadRecorder counts upload outcomes. The metrics Collector satisfies it.
type UploadRecorder interface {
	RecordUpload(success bool)
}

// UploadHandler serves admin media uploads.
type UploadHandler struct {
	service  UploadServiceInterface
	recorder UploadRecorder
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(service UploadServiceInterface, recorder UploadRecorder) *UploadHandler {
	return &UploadHandler{service: service, recorder: recorder}
}

// Upload stores one multipart file under the "file" field.
// POST /api/admin/uploads
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("body", "malformed multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("file", "missing file field"))
		return
	}
	defer file.Close()

	result, err := h.service.Upload(r.Context(), file, header.Size)
	if err != nil {
		h.recorder.RecordUpload(false)
		handleServiceError(w, err)
		return
	}
	h.recorder.RecordUpload(true)
	writeJSON(w, http.StatusCreated, result)
}

// Delete removes an uploaded object and its thumbnail.
// DELETE /api/admin/uploads/{name}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("name", "required"))
		return
	}
	if err := h.service.Delete(r.Context(), name); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
