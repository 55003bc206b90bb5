package ephemeral

import (
	"context"
	"time"
)

// Category namespaces records within the store. Per-owner lookups are always
// scoped by category.
type Category string

const (
	CategoryDraft      Category = "draft"
	CategoryCart       Category = "cart"
	CategoryPreference Category = "preference"
	CategoryScratch    Category = "scratch"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryDraft, CategoryCart, CategoryPreference, CategoryScratch:
		return true
	}
	return false
}

// Categories lists every known category, used when an owner scan spans all
// namespaces.
var Categories = []Category{CategoryDraft, CategoryCart, CategoryPreference, CategoryScratch}

// Payload is an opaque structured value. The store enforces no schema.
type Payload map[string]any

// Clone returns a shallow copy so callers cannot mutate stored state.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type Record struct {
	Key            string    `json:"key"`
	Owner          string    `json:"owner,omitempty"`
	Category       Category  `json:"category"`
	Payload        Payload   `json:"payload"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// Expired reports whether the record is logically absent at now. Reads must
// apply this check themselves; physical reaping is advisory only.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Store is a key-value store with per-record TTL, access-refresh and typed
// namespaces. Missing or expired keys are signalled through the boolean
// return, never through an error: errors are reserved for backend failures.
type Store interface {
	// Put creates or overwrites a record and sets its expiry to now+ttl.
	// An empty key asks the store to generate one; the effective key is
	// returned either way.
	Put(ctx context.Context, key, owner string, category Category, payload Payload, ttl time.Duration) (string, error)

	// Get returns the payload for a live record. With refresh, the expiry
	// is extended to now+defaultTTL and the access time updated as a side
	// effect of the read.
	Get(ctx context.Context, key string, refresh bool) (Payload, bool, error)

	// Merge shallow-merges partial into an existing live record
	// (last-write-wins per field) and refreshes expiry to now+ttl. It does
	// not create records; callers needing upsert use Put.
	Merge(ctx context.Context, key string, partial Payload, ttl time.Duration) (Payload, bool, error)

	// Delete removes a record, reporting whether a live one existed.
	Delete(ctx context.Context, key string) (bool, error)

	// ListByOwner returns the owner's live records, most recently accessed
	// first. An empty category spans all namespaces.
	ListByOwner(ctx context.Context, owner string, category Category) ([]Record, error)

	// Reap removes expired records best-effort and returns how many were
	// dropped. Safe to call concurrently and redundantly.
	Reap(ctx context.Context) (int, error)
}
