package wire

import (
	"cargo-booking/internal/adaptor"
	"cargo-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDraft(r chi.Router, draftHandler *adaptor.DraftHandler, log *zap.Logger) {
	// All draft routes belong to the authenticated owner.
	r.Route("/api/drafts", func(r chi.Router) {
		r.Use(middleware.Principal(log))

		// POST /api/drafts - Save a draft (new or explicit overwrite)
		r.Post("/", draftHandler.SaveDraft)

		// PATCH /api/drafts/autosave - Merge into the active draft
		r.Patch("/autosave", draftHandler.AutoSaveDraft)

		// GET /api/drafts - List own drafts
		r.Get("/", draftHandler.ListDrafts)

		// GET /api/drafts/{key} - Resume a draft (refreshes its TTL)
		r.Get("/{key}", draftHandler.GetDraft)

		// DELETE /api/drafts/{key} - Discard a draft
		r.Delete("/{key}", draftHandler.DeleteDraft)
	})
}
