package handler

import (
	"github.com/sadokz/lamaitrise/internal/images"
	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/security"
)

// imageSpecPayload is the wire shape of an ImageSpec.
type imageSpecPayload struct {
	Mode        string `json:"mode"`
	URL         string `json:"url,omitempty"`
	UploadedURL string `json:"uploaded_url,omitempty"`
}

// toSpec validates and converts the payload. URL-mode specs go through the
// URL guard so admin-supplied links cannot point into private networks.
func (p imageSpecPayload) toSpec(guard security.URLGuardService) (model.ImageSpec, error) {
	mode := model.ImageMode(p.Mode)
	if p.Mode == "" {
		mode = model.ImageModeAuto
	}
	if !mode.Valid() {
		return model.ImageSpec{}, model.NewValidationError("image.mode", "must be auto, url or upload")
	}

	spec := model.ImageSpec{Mode: mode, URL: p.URL, UploadedURL: p.UploadedURL}
	switch mode {
	case model.ImageModeURL:
		if spec.URL == "" {
			return model.ImageSpec{}, model.NewValidationError("image.url", "required for url mode")
		}
		if err := guard.ValidateURL(spec.URL); err != nil {
			return model.ImageSpec{}, model.NewURLBlockedError(err.Error())
		}
	case model.ImageModeUpload:
		if spec.UploadedURL == "" {
			return model.ImageSpec{}, model.NewValidationError("image.uploaded_url", "required for upload mode")
		}
	}
	return spec, nil
}

// imageSpecView is the outbound shape: the raw spec plus the URL it resolves
// to, with auto mode already run through the keyword fallback.
type imageSpecView struct {
	Mode        string `json:"mode"`
	URL         string `json:"url,omitempty"`
	UploadedURL string `json:"uploaded_url,omitempty"`
	ResolvedURL string `json:"resolved_url"`
}

func toSpecView(spec model.ImageSpec, searchText, defaultKey string) imageSpecView {
	return imageSpecView{
		Mode:        string(spec.Mode),
		URL:         spec.URL,
		UploadedURL: spec.UploadedURL,
		ResolvedURL: images.ResolveSpec(spec, searchText, defaultKey),
	}
}
