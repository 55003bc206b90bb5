package request

type SaveDraftRequest struct {
	// DraftKey, when set, overwrites that draft; when omitted a new draft
	// is created alongside any existing ones.
	DraftKey *string        `json:"draftKey,omitempty" validate:"omitempty,uuid4"`
	Payload  map[string]any `json:"payload" validate:"required"`
}

type AutoSaveDraftRequest struct {
	Payload map[string]any `json:"payload" validate:"required"`
}
