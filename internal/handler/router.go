package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sadokz/lamaitrise/internal/metrics"
	"github.com/sadokz/lamaitrise/internal/middleware"
)

// RouterDeps bundles everything NewRouter wires together.
type RouterDeps struct {
	Auth        *AuthHandler
	Texts       *TextHandler
	References  *ReferenceHandler
	Domains     *DomainHandler
	Competences *CompetenceHandler
	Settings    *SettingsHandler
	Uploads     *UploadHandler

	SessionResolver middleware.AdminResolver
	RateLimiter     *middleware.RateLimiter
	Collector       middleware.HTTPMetricsRecorder
	Gatherer        prometheus.Gatherer

	Logger        *slog.Logger
	AllowedOrigin string
	CSRFConfig    middleware.CSRFConfig

	// UploadDir is served read-only under /uploads/.
	UploadDir string
}

// NewRouter assembles the HTTP routing tree. Public routes pass through the
// session middleware so inline editing can see the ambient admin state;
// admin routes additionally require a signed-in session, a CSRF token match
// and the general rate limit, with the stricter upload tier on uploads.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.AllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Post("/login", deps.Auth.Login)
		r.Post("/logout", deps.Auth.Logout)
		r.Get("/me", deps.Auth.Me)
		r.With(middleware.RequireAdmin, middleware.NewCSRFMiddleware(deps.CSRFConfig)).
			Put("/edit-mode", deps.Auth.SetEditMode)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// Public, read-only.
		r.Get("/texts", deps.Texts.ListByPage)
		r.Get("/references", deps.References.List)
		r.Get("/references/featured", deps.References.Featured)
		r.Post("/references/active-section", deps.References.ActiveSection)
		r.Get("/domains", deps.Domains.List)
		r.Get("/competences", deps.Competences.List)
		r.Get("/settings/visibility", deps.Settings.GetVisibility)
		r.Get("/settings/theme", deps.Settings.GetTheme)
		r.Get("/settings/hero/{page}", deps.Settings.GetHeroMedia)
		r.Get("/settings/contact", deps.Settings.GetContactInfo)
		r.Get("/founder", deps.Settings.GetFounder)

		// Admin, mutating.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

			r.Put("/texts", deps.Texts.Save)

			r.Route("/references", func(r chi.Router) {
				r.Get("/", deps.References.AdminList)
				r.Post("/", deps.References.Create)
				r.Get("/{id}", deps.References.Get)
				r.Put("/{id}", deps.References.Update)
				r.Delete("/{id}", deps.References.Delete)
				r.Post("/{id}/move", deps.References.Move)
				r.Put("/{id}/images", deps.References.SaveImages)
			})

			r.Route("/domains", func(r chi.Router) {
				r.Get("/", deps.Domains.AdminList)
				r.Post("/", deps.Domains.Create)
				r.Get("/{id}", deps.Domains.Get)
				r.Put("/{id}", deps.Domains.Update)
				r.Delete("/{id}", deps.Domains.Delete)
				r.Post("/{id}/move", deps.Domains.Move)
			})

			r.Route("/competences", func(r chi.Router) {
				r.Get("/", deps.Competences.AdminList)
				r.Post("/", deps.Competences.Create)
				r.Get("/{id}", deps.Competences.Get)
				r.Put("/{id}", deps.Competences.Update)
				r.Delete("/{id}", deps.Competences.Delete)
				r.Post("/{id}/move", deps.Competences.Move)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Put("/visibility", deps.Settings.SaveVisibility)
				r.Put("/theme", deps.Settings.SaveTheme)
				r.Put("/hero/{page}", deps.Settings.SaveHeroMedia)
				r.Put("/contact", deps.Settings.SaveContactInfo)
			})
			r.Put("/founder", deps.Settings.SaveFounder)

			r.Route("/uploads", func(r chi.Router) {
				r.Use(deps.RateLimiter.UploadMiddleware())
				r.Post("/", deps.Uploads.Upload)
				r.Delete("/{name}", deps.Uploads.Delete)
			})
		})
	})

	// Uploaded objects are served as static files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(deps.UploadDir))))

	return r
}
