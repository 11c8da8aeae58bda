package documents

import "github.com/go-chi/chi/v5"

// MountRoutes registers the document routes for both kinds under /{kind}.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/{kind}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/new", h.NewDraft)
		r.Post("/preview", h.PreviewDraft)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/status", h.SetStatus)
		r.Get("/{id}/preview", h.Preview)
		r.Get("/{id}/pdf", h.PDF)
	})
}
