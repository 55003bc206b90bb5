package usecase

import (
	"context"
	"fmt"
	"time"

	"cargo-booking/internal/dto/request"
	"cargo-booking/internal/dto/response"
	"cargo-booking/internal/ephemeral"
	"cargo-booking/pkg/utils"

	"go.uber.org/zap"
)

type DraftService interface {
	// SaveDraft creates a draft, or fully overwrites the one named by
	// DraftKey. Multiple independent drafts per owner may coexist through
	// this path.
	SaveDraft(ctx context.Context, ownerID string, req *request.SaveDraftRequest) (*response.DraftResponse, error)
	GetDraft(ctx context.Context, draftKey string) (*response.DraftResponse, error)
	ListDrafts(ctx context.Context, ownerID string) ([]response.DraftResponse, error)
	DeleteDraft(ctx context.Context, draftKey string) error

	// AutoSaveDraft merges into the owner's most recently accessed draft,
	// creating one if none exists. This is the single-active-draft path.
	AutoSaveDraft(ctx context.Context, ownerID string, req *request.AutoSaveDraftRequest) (*response.DraftResponse, error)

	// CleanupDrafts removes every draft of the owner. Invoked as a
	// best-effort background step after booking submission.
	CleanupDrafts(ctx context.Context, ownerID string) error
}

type draftService struct {
	store   ephemeral.Store
	saveTTL time.Duration
	log     *zap.Logger
}

func NewDraftService(store ephemeral.Store, config *utils.Config, log *zap.Logger) DraftService {
	return &draftService{
		store:   store,
		saveTTL: config.Draft.SaveTTL,
		log:     log.With(zap.String("service", "draft")),
	}
}

func (s *draftService) SaveDraft(ctx context.Context, ownerID string, req *request.SaveDraftRequest) (*response.DraftResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Save draft validation failed", zap.Any("errors", errs))
		return nil, NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	key := ""
	if req.DraftKey != nil {
		key = *req.DraftKey
	}

	// Explicit saves get the long TTL; a supplied key is overwritten whole.
	key, err := s.store.Put(ctx, key, ownerID, ephemeral.CategoryDraft, ephemeral.Payload(req.Payload), s.saveTTL)
	if err != nil {
		s.log.Error("Failed to save draft",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		return nil, fmt.Errorf("save draft: %w", err)
	}

	s.log.Info("Draft saved",
		zap.String("owner_id", ownerID),
		zap.String("draft_key", key),
	)

	return &response.DraftResponse{DraftKey: key, Payload: req.Payload}, nil
}

func (s *draftService) GetDraft(ctx context.Context, draftKey string) (*response.DraftResponse, error) {
	payload, ok, err := s.store.Get(ctx, draftKey, true)
	if err != nil {
		s.log.Error("Failed to get draft",
			zap.Error(err),
			zap.String("draft_key", draftKey),
		)
		return nil, fmt.Errorf("get draft %s: %w", draftKey, err)
	}
	if !ok {
		return nil, NewNotFoundError("draft %s not found", draftKey)
	}

	return &response.DraftResponse{DraftKey: draftKey, Payload: payload}, nil
}

func (s *draftService) ListDrafts(ctx context.Context, ownerID string) ([]response.DraftResponse, error) {
	records, err := s.store.ListByOwner(ctx, ownerID, ephemeral.CategoryDraft)
	if err != nil {
		s.log.Error("Failed to list drafts",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		return nil, fmt.Errorf("list drafts for %s: %w", ownerID, err)
	}

	drafts := make([]response.DraftResponse, len(records))
	for i := range records {
		drafts[i] = response.DraftToResponse(&records[i])
	}
	return drafts, nil
}

func (s *draftService) DeleteDraft(ctx context.Context, draftKey string) error {
	removed, err := s.store.Delete(ctx, draftKey)
	if err != nil {
		s.log.Error("Failed to delete draft",
			zap.Error(err),
			zap.String("draft_key", draftKey),
		)
		return fmt.Errorf("delete draft %s: %w", draftKey, err)
	}
	if !removed {
		return NewNotFoundError("draft %s not found", draftKey)
	}

	s.log.Info("Draft deleted", zap.String("draft_key", draftKey))
	return nil
}

func (s *draftService) AutoSaveDraft(ctx context.Context, ownerID string, req *request.AutoSaveDraftRequest) (*response.DraftResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Auto-save draft validation failed", zap.Any("errors", errs))
		return nil, NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	records, err := s.store.ListByOwner(ctx, ownerID, ephemeral.CategoryDraft)
	if err != nil {
		return nil, fmt.Errorf("auto-save draft for %s: %w", ownerID, err)
	}

	partial := ephemeral.Payload(req.Payload)

	// Merge into the most recently accessed draft when one exists; the
	// merge-or-create pair is where single-active-draft behavior lives.
	if len(records) > 0 {
		key := records[0].Key
		merged, ok, err := s.store.Merge(ctx, key, partial, 0)
		if err != nil {
			return nil, fmt.Errorf("auto-save merge into %s: %w", key, err)
		}
		if ok {
			s.log.Debug("Draft auto-saved",
				zap.String("owner_id", ownerID),
				zap.String("draft_key", key),
			)
			return &response.DraftResponse{DraftKey: key, Payload: merged}, nil
		}
		// The draft expired between listing and merging; fall through and
		// create a fresh one.
	}

	key, err := s.store.Put(ctx, "", ownerID, ephemeral.CategoryDraft, partial, 0)
	if err != nil {
		return nil, fmt.Errorf("auto-save create for %s: %w", ownerID, err)
	}

	s.log.Debug("Draft auto-save created",
		zap.String("owner_id", ownerID),
		zap.String("draft_key", key),
	)
	return &response.DraftResponse{DraftKey: key, Payload: req.Payload}, nil
}

func (s *draftService) CleanupDrafts(ctx context.Context, ownerID string) error {
	records, err := s.store.ListByOwner(ctx, ownerID, ephemeral.CategoryDraft)
	if err != nil {
		return fmt.Errorf("cleanup drafts for %s: %w", ownerID, err)
	}

	deleted := 0
	for _, rec := range records {
		removed, err := s.store.Delete(ctx, rec.Key)
		if err != nil {
			return fmt.Errorf("cleanup draft %s: %w", rec.Key, err)
		}
		if removed {
			deleted++
		}
	}

	s.log.Info("Drafts cleaned up after booking submission",
		zap.String("owner_id", ownerID),
		zap.Int("deleted", deleted),
	)
	return nil
}
