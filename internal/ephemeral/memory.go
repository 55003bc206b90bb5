package ephemeral

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryStore keeps records in-process behind a RWMutex. It is the default
// backend when no Redis address is configured and the backend unit tests run
// against.
type MemoryStore struct {
	mu         sync.RWMutex
	records    map[string]*Record
	defaultTTL time.Duration
	now        func() time.Time
	log        *zap.Logger
}

func NewMemoryStore(defaultTTL time.Duration, log *zap.Logger) *MemoryStore {
	return &MemoryStore{
		records:    make(map[string]*Record),
		defaultTTL: defaultTTL,
		now:        time.Now,
		log:        log.With(zap.String("store", "ephemeral-memory")),
	}
}

func (s *MemoryStore) Put(_ context.Context, key, owner string, category Category, payload Payload, ttl time.Duration) (string, error) {
	if key == "" {
		key = uuid.New().String()
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = &Record{
		Key:            key,
		Owner:          owner,
		Category:       category,
		Payload:        payload.Clone(),
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}
	return key, nil
}

func (s *MemoryStore) Get(_ context.Context, key string, refresh bool) (Payload, bool, error) {
	now := s.now()

	if !refresh {
		s.mu.RLock()
		defer s.mu.RUnlock()

		rec, ok := s.records[key]
		if !ok || rec.Expired(now) {
			return nil, false, nil
		}
		return rec.Payload.Clone(), true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || rec.Expired(now) {
		return nil, false, nil
	}
	rec.ExpiresAt = now.Add(s.defaultTTL)
	rec.LastAccessedAt = now
	return rec.Payload.Clone(), true, nil
}

func (s *MemoryStore) Merge(_ context.Context, key string, partial Payload, ttl time.Duration) (Payload, bool, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || rec.Expired(now) {
		return nil, false, nil
	}
	if rec.Payload == nil {
		rec.Payload = make(Payload, len(partial))
	}
	for k, v := range partial {
		rec.Payload[k] = v
	}
	rec.ExpiresAt = now.Add(ttl)
	rec.LastAccessedAt = now
	return rec.Payload.Clone(), true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return false, nil
	}
	delete(s.records, key)
	// Deleting an already-expired record is not an observable removal.
	return !rec.Expired(now), nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, owner string, category Category) ([]Record, error) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.records {
		if rec.Owner != owner || rec.Expired(now) {
			continue
		}
		if category != "" && rec.Category != category {
			continue
		}
		cp := *rec
		cp.Payload = rec.Payload.Clone()
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastAccessedAt.After(out[j].LastAccessedAt)
	})
	return out, nil
}

// Reap drops expired records. Candidates are collected under a read lock,
// then expiry is re-checked under the write lock immediately before removal
// so a concurrent refresh is never clobbered by a stale snapshot.
func (s *MemoryStore) Reap(_ context.Context) (int, error) {
	now := s.now()

	s.mu.RLock()
	var candidates []string
	for key, rec := range s.records {
		if rec.Expired(now) {
			candidates = append(candidates, key)
		}
	}
	s.mu.RUnlock()

	if len(candidates) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for _, key := range candidates {
		rec, ok := s.records[key]
		if !ok || !rec.Expired(s.now()) {
			continue
		}
		delete(s.records, key)
		reaped++
	}
	if reaped > 0 {
		s.log.Debug("Reaped expired records", zap.Int("count", reaped))
	}
	return reaped, nil
}
