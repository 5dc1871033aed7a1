package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Every page route passes through the navigation guard; state-changing
// routes also require a valid CSRF token.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// The guard redirects the root path unconditionally.
	mux.HandleFunc("GET /{$}", h.guard(http.NotFound))

	mux.HandleFunc("GET /login", h.guard(h.LoginPage))
	mux.HandleFunc("POST /login", h.guard(requireCSRF(h.Login)))
	mux.HandleFunc("POST /logout", h.guard(requireCSRF(h.Logout)))

	mux.HandleFunc("GET /costumes", h.guard(h.ListCostumes))
	mux.HandleFunc("GET /costumes/create", h.guard(h.NewCostume))
	mux.HandleFunc("POST /costumes", h.guard(requireCSRF(h.CreateCostume)))
	mux.HandleFunc("GET /costumes/{id}", h.guard(h.ShowCostume))
	mux.HandleFunc("GET /costumes/{id}/edit", h.guard(h.EditCostume))
	mux.HandleFunc("POST /costumes/{id}", h.guard(requireCSRF(h.UpdateCostume)))
	mux.HandleFunc("POST /costumes/{id}/delete", h.guard(requireCSRF(h.DeleteCostume)))
	mux.HandleFunc("GET /costumes/{id}/download", h.guard(h.DownloadCostume))
}
