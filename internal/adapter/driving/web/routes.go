package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Pages are served at / and /contacts/*; static assets are served from the
// embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /contacts/{id}/edit", h.Edit)
	mux.HandleFunc("POST /contacts", h.Create)
	mux.HandleFunc("POST /contacts/{id}", h.Update)
	mux.HandleFunc("POST /contacts/{id}/delete", h.Delete)
}
