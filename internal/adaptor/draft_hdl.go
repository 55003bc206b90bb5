package adaptor

import (
	"encoding/json"
	"net/http"

	"cargo-booking/internal/dto/request"
	"cargo-booking/internal/usecase"
	"cargo-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DraftHandler struct {
	service usecase.DraftService
	log     *zap.Logger
}

func NewDraftHandler(service usecase.DraftService, log *zap.Logger) *DraftHandler {
	return &DraftHandler{
		service: service,
		log:     log.With(zap.String("handler", "draft")),
	}
}

// SaveDraft handles POST /api/drafts (protected)
func (h *DraftHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	draft, err := h.service.SaveDraft(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "save draft")
		return
	}

	utils.ResponseCreated(w, "success", draft)
}

// AutoSaveDraft handles PATCH /api/drafts/autosave (protected)
func (h *DraftHandler) AutoSaveDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AutoSaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	draft, err := h.service.AutoSaveDraft(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "auto-save draft")
		return
	}

	utils.ResponseSuccess(w, "success", draft)
}

// GetDraft handles GET /api/drafts/{key} (protected)
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draftKey := chi.URLParam(r, "key")
	if draftKey == "" {
		utils.ResponseBadRequest(w, "Draft key is required", nil)
		return
	}

	draft, err := h.service.GetDraft(r.Context(), draftKey)
	if err != nil {
		handleServiceError(w, h.log, err, "get draft")
		return
	}

	utils.ResponseSuccess(w, "success", draft)
}

// ListDrafts handles GET /api/drafts (protected)
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	drafts, err := h.service.ListDrafts(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "list drafts")
		return
	}

	utils.ResponseSuccess(w, "success", drafts)
}

// DeleteDraft handles DELETE /api/drafts/{key} (protected)
func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	draftKey := chi.URLParam(r, "key")
	if draftKey == "" {
		utils.ResponseBadRequest(w, "Draft key is required", nil)
		return
	}

	if err := h.service.DeleteDraft(r.Context(), draftKey); err != nil {
		handleServiceError(w, h.log, err, "delete draft")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
