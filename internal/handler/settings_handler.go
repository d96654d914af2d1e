package handler

import (
	"context"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/sadokz/lamaitrise/internal/images"
	"github.com/sadokz/lamaitrise/internal/middleware"
	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/security"
)

// SettingsRepoInterface is the repository surface the settings handler
// needs. repository.SettingsRepository satisfies it.
type SettingsRepoInterface interface {
	GetSectionVisibility(ctx context.Context) (model.SectionVisibility, error)
	SaveSectionVisibility(ctx context.Context, v model.SectionVisibility) error
	GetColorTheme(ctx context.Context) (model.ColorTheme, error)
	SaveColorTheme(ctx context.Context, t model.ColorTheme) error
	GetHeroMedia(ctx context.Context, page string) (*model.HeroMedia, error)
	SaveHeroMedia(ctx context.Context, h model.HeroMedia) error
	GetContactInfo(ctx context.Context) (model.ContactInfo, error)
	SaveContactInfo(ctx context.Context, c model.ContactInfo) error
	GetFounder(ctx context.Context) (*model.Founder, error)
	SaveFounder(ctx context.Context, f model.Founder) error
}

// SettingsHandler serves the singleton site settings.
type SettingsHandler struct {
	repo      SettingsRepoInterface
	guard     security.URLGuardService
	sanitizer security.RichTextSanitizerService
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(repo SettingsRepoInterface, guard security.URLGuardService, sanitizer security.RichTextSanitizerService) *SettingsHandler {
	return &SettingsHandler{repo: repo, guard: guard, sanitizer: sanitizer}
}

type visibilityPayload struct {
	ShowHero        bool `json:"show_hero"`
	ShowCompetences bool `json:"show_competences"`
	ShowDomains     bool `json:"show_domains"`
	ShowReferences  bool `json:"show_references"`
	ShowFounder     bool `json:"show_founder"`
	ShowPartners    bool `json:"show_partners"`
	ShowContact     bool `json:"show_contact"`
	ShowChatbot     bool `json:"show_chatbot"`
}

type themeResponse struct {
	PrimaryHex   string    `json:"primary_hex"`
	SecondaryHex string    `json:"secondary_hex"`
	PrimaryHSL   model.HSL `json:"primary_hsl"`
	SecondaryHSL model.HSL `json:"secondary_hsl"`
}

type themeWriteRequest struct {
	PrimaryHex   string `json:"primary_hex"`
	SecondaryHex string `json:"secondary_hex"`
}

type heroMediaPayload struct {
	Page     string `json:"page"`
	Type     string `json:"type"`
	Source   string `json:"source"`
	MediaURL string `json:"media_url"`
}

type contactInfoPayload struct {
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	MapEmbedURL string `json:"map_embed_url"`
	LinkedInURL string `json:"linkedin_url"`
	FacebookURL string `json:"facebook_url"`
}

type founderResponse struct {
	FullName  string        `json:"full_name"`
	RoleTitle string        `json:"role_title"`
	Bio       string        `json:"bio,omitempty"`
	Photo     imageSpecView `json:"photo"`
}

type founderWriteRequest struct {
	FullName  string           `json:"full_name"`
	RoleTitle string           `json:"role_title"`
	Bio       string           `json:"bio"`
	Photo     imageSpecPayload `json:"photo"`
}

// GetVisibility returns the per-section render flags.
// GET /api/settings/visibility
func (h *SettingsHandler) GetVisibility(w http.ResponseWriter, r *http.Request) {
	v, err := h.repo.GetSectionVisibility(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVisibilityPayload(v))
}

// SaveVisibility replaces the per-section render flags.
// PUT /api/admin/settings/visibility
func (h *SettingsHandler) SaveVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	v := model.SectionVisibility{
		ShowHero:        req.ShowHero,
		ShowCompetences: req.ShowCompetences,
		ShowDomains:     req.ShowDomains,
		ShowReferences:  req.ShowReferences,
		ShowFounder:     req.ShowFounder,
		ShowPartners:    req.ShowPartners,
		ShowContact:     req.ShowContact,
		ShowChatbot:     req.ShowChatbot,
	}
	if err := h.repo.SaveSectionVisibility(r.Context(), v); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVisibilityPayload(v))
}

// GetTheme returns the color pair with HSL components derived from the
// stored hex values, ready for CSS variable injection.
// GET /api/settings/theme
func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.GetColorTheme(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	resp, err := toThemeResponse(t)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveTheme replaces the color pair. Both values must parse as hex colors.
// PUT /api/admin/settings/theme
func (h *SettingsHandler) SaveTheme(w http.ResponseWriter, r *http.Request) {
	var req themeWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := model.HexToHSL(req.PrimaryHex); err != nil {
		handleServiceError(w, model.NewValidationError("primary_hex", err.Error()))
		return
	}
	if _, err := model.HexToHSL(req.SecondaryHex); err != nil {
		handleServiceError(w, model.NewValidationError("secondary_hex", err.Error()))
		return
	}
	t := model.ColorTheme{PrimaryHex: req.PrimaryHex, SecondaryHex: req.SecondaryHex}
	if err := h.repo.SaveColorTheme(r.Context(), t); err != nil {
		handleServiceError(w, err)
		return
	}
	resp, err := toThemeResponse(t)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetHeroMedia returns the hero setting for one page. Unset pages report an
// image from the keyword fallback for the page name.
// GET /api/settings/hero/{page}
func (h *SettingsHandler) GetHeroMedia(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	if !slices.Contains(model.HeroPages, page) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("hero media", page))
		return
	}
	media, err := h.repo.GetHeroMedia(r.Context(), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if media == nil {
		media = &model.HeroMedia{
			Page:     page,
			Type:     model.MediaTypeImage,
			Source:   model.MediaSourceURL,
			MediaURL: images.Resolve(page, fallbackDefaultKey),
		}
	}
	writeJSON(w, http.StatusOK, heroMediaPayload{
		Page:     media.Page,
		Type:     string(media.Type),
		Source:   string(media.Source),
		MediaURL: media.MediaURL,
	})
}

// SaveHeroMedia replaces the hero setting for one page. URL-sourced media is
// checked against the outbound URL guard.
// PUT /api/admin/settings/hero/{page}
func (h *SettingsHandler) SaveHeroMedia(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	if !slices.Contains(model.HeroPages, page) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("hero media", page))
		return
	}
	var req heroMediaPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	mediaType := model.MediaType(req.Type)
	if mediaType != model.MediaTypeImage && mediaType != model.MediaTypeVideo {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("type", "must be image or video"))
		return
	}
	source := model.MediaSource(req.Source)
	if source != model.MediaSourceUpload && source != model.MediaSourceURL {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("source", "must be upload or url"))
		return
	}
	if req.MediaURL == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("media_url", "required"))
		return
	}
	if source == model.MediaSourceURL {
		if err := h.guard.ValidateURL(req.MediaURL); err != nil {
			handleServiceError(w, model.NewURLBlockedError(err.Error()))
			return
		}
	}

	media := model.HeroMedia{
		Page:     page,
		Type:     mediaType,
		Source:   source,
		MediaURL: req.MediaURL,
	}
	if err := h.repo.SaveHeroMedia(r.Context(), media); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heroMediaPayload{
		Page:     media.Page,
		Type:     string(media.Type),
		Source:   string(media.Source),
		MediaURL: media.MediaURL,
	})
}

// GetContactInfo returns the contact coordinates.
// GET /api/settings/contact
func (h *SettingsHandler) GetContactInfo(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.GetContactInfo(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactPayload(c))
}

// SaveContactInfo replaces the contact coordinates.
// PUT /api/admin/settings/contact
func (h *SettingsHandler) SaveContactInfo(w http.ResponseWriter, r *http.Request) {
	var req contactInfoPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	c := model.ContactInfo{
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		MapEmbedURL: req.MapEmbedURL,
		LinkedInURL: req.LinkedInURL,
		FacebookURL: req.FacebookURL,
	}
	if err := h.repo.SaveContactInfo(r.Context(), c); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactPayload(c))
}

// GetFounder returns the founder bio. A never-saved bio reports empty fields
// with a fallback portrait.
// GET /api/founder
func (h *SettingsHandler) GetFounder(w http.ResponseWriter, r *http.Request) {
	f, err := h.repo.GetFounder(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if f == nil {
		f = &model.Founder{Photo: model.ImageSpec{Mode: model.ImageModeAuto}}
	}
	writeJSON(w, http.StatusOK, toFounderResponse(*f))
}

// SaveFounder replaces the founder bio.
// PUT /api/admin/founder
func (h *SettingsHandler) SaveFounder(w http.ResponseWriter, r *http.Request) {
	var req founderWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FullName == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("full_name", "required"))
		return
	}
	spec, err := req.Photo.toSpec(h.guard)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	f := model.Founder{
		FullName:  req.FullName,
		RoleTitle: req.RoleTitle,
		Bio:       h.sanitizer.Sanitize(req.Bio),
		Photo:     spec,
	}
	if err := h.repo.SaveFounder(r.Context(), f); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFounderResponse(f))
}

func toVisibilityPayload(v model.SectionVisibility) visibilityPayload {
	return visibilityPayload{
		ShowHero:        v.ShowHero,
		ShowCompetences: v.ShowCompetences,
		ShowDomains:     v.ShowDomains,
		ShowReferences:  v.ShowReferences,
		ShowFounder:     v.ShowFounder,
		ShowPartners:    v.ShowPartners,
		ShowContact:     v.ShowContact,
		ShowChatbot:     v.ShowChatbot,
	}
}

func toThemeResponse(t model.ColorTheme) (themeResponse, error) {
	primary, err := model.HexToHSL(t.PrimaryHex)
	if err != nil {
		return themeResponse{}, err
	}
	secondary, err := model.HexToHSL(t.SecondaryHex)
	if err != nil {
		return themeResponse{}, err
	}
	return themeResponse{
		PrimaryHex:   t.PrimaryHex,
		SecondaryHex: t.SecondaryHex,
		PrimaryHSL:   primary,
		SecondaryHSL: secondary,
	}, nil
}

func toContactPayload(c model.ContactInfo) contactInfoPayload {
	return contactInfoPayload{
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		MapEmbedURL: c.MapEmbedURL,
		LinkedInURL: c.LinkedInURL,
		FacebookURL: c.FacebookURL,
	}
}

func toFounderResponse(f model.Founder) founderResponse {
	search := images.SearchText(f.FullName, f.RoleTitle)
	return founderResponse{
		FullName:  f.FullName,
		RoleTitle: f.RoleTitle,
		Bio:       f.Bio,
		Photo:     toSpecView(f.Photo, search, fallbackDefaultKey),
	}
}
