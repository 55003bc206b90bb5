package response

import (
	"time"

	"cargo-booking/internal/ephemeral"
)

type DraftResponse struct {
	DraftKey       string         `json:"draftKey"`
	Payload        map[string]any `json:"payload"`
	ExpiresAt      *time.Time     `json:"expiresAt,omitempty"`
	LastAccessedAt *time.Time     `json:"lastAccessedAt,omitempty"`
}

func DraftToResponse(rec *ephemeral.Record) DraftResponse {
	expiresAt := rec.ExpiresAt
	lastAccessedAt := rec.LastAccessedAt
	return DraftResponse{
		DraftKey:       rec.Key,
		Payload:        rec.Payload,
		ExpiresAt:      &expiresAt,
		LastAccessedAt: &lastAccessedAt,
	}
}
