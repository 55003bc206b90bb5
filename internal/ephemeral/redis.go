package ephemeral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	recordKeyPrefix = "eph:rec:"
	ownerKeyPrefix  = "eph:own:"
)

// RedisStore backs the ephemeral store with Redis. Records live under
// native-TTL string keys; a per-owner ZSET indexes keys by last access time
// so owner listings come back most-recently-accessed first. Index entries
// whose record already expired are dropped lazily on read and by Reap.
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
	log        *zap.Logger
}

func NewRedisStore(client *redis.Client, defaultTTL time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client:     client,
		defaultTTL: defaultTTL,
		log:        log.With(zap.String("store", "ephemeral-redis")),
	}
}

func recordKey(key string) string {
	return recordKeyPrefix + key
}

func ownerKey(owner string, category Category) string {
	return fmt.Sprintf("%s%s:%s", ownerKeyPrefix, owner, category)
}

func (s *RedisStore) write(ctx context.Context, rec *Record, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.Key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(rec.Key), raw, ttl)
	if rec.Owner != "" {
		pipe.ZAdd(ctx, ownerKey(rec.Owner, rec.Category), redis.Z{
			Score:  float64(rec.LastAccessedAt.UnixMilli()),
			Member: rec.Key,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write record %s: %w", rec.Key, err)
	}
	return nil
}

func (s *RedisStore) read(ctx context.Context, key string) (*Record, error) {
	raw, err := s.client.Get(ctx, recordKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", key, err)
	}
	// Redis TTL normally removes expired records, but the logical expiry is
	// still re-checked here.
	if rec.Expired(time.Now()) {
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) Put(ctx context.Context, key, owner string, category Category, payload Payload, ttl time.Duration) (string, error) {
	if key == "" {
		key = uuid.New().String()
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()

	rec := &Record{
		Key:            key,
		Owner:          owner,
		Category:       category,
		Payload:        payload.Clone(),
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}
	if err := s.write(ctx, rec, ttl); err != nil {
		return "", err
	}
	return key, nil
}

func (s *RedisStore) Get(ctx context.Context, key string, refresh bool) (Payload, bool, error) {
	rec, err := s.read(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, nil
	}

	if refresh {
		now := time.Now()
		rec.ExpiresAt = now.Add(s.defaultTTL)
		rec.LastAccessedAt = now
		if err := s.write(ctx, rec, s.defaultTTL); err != nil {
			return nil, false, err
		}
	}
	return rec.Payload, true, nil
}

func (s *RedisStore) Merge(ctx context.Context, key string, partial Payload, ttl time.Duration) (Payload, bool, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	rec, err := s.read(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, nil
	}

	if rec.Payload == nil {
		rec.Payload = make(Payload, len(partial))
	}
	for k, v := range partial {
		rec.Payload[k] = v
	}
	now := time.Now()
	rec.ExpiresAt = now.Add(ttl)
	rec.LastAccessedAt = now

	if err := s.write(ctx, rec, ttl); err != nil {
		return nil, false, err
	}
	return rec.Payload, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	rec, err := s.read(ctx, key)
	if err != nil {
		return false, err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, recordKey(key))
	if rec != nil && rec.Owner != "" {
		pipe.ZRem(ctx, ownerKey(rec.Owner, rec.Category), key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete record %s: %w", key, err)
	}
	return rec != nil, nil
}

func (s *RedisStore) ListByOwner(ctx context.Context, owner string, category Category) ([]Record, error) {
	categories := Categories
	if category != "" {
		categories = []Category{category}
	}

	var out []Record
	for _, cat := range categories {
		idx := ownerKey(owner, cat)
		keys, err := s.client.ZRevRange(ctx, idx, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("list owner %s category %s: %w", owner, cat, err)
		}

		for _, key := range keys {
			rec, err := s.read(ctx, key)
			if err != nil {
				return nil, err
			}
			if rec == nil {
				// Record expired out from under its index entry.
				if err := s.client.ZRem(ctx, idx, key).Err(); err != nil {
					s.log.Warn("Failed to drop stale index entry",
						zap.Error(err),
						zap.String("owner", owner),
						zap.String("key", key),
					)
				}
				continue
			}
			out = append(out, *rec)
		}
	}

	// ZSET order holds per category; a cross-category scan still needs one
	// overall ordering pass.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].LastAccessedAt.After(out[j-1].LastAccessedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

// Reap prunes owner-index entries whose records Redis has already expired.
// Record removal itself is handled by native TTLs.
func (s *RedisStore) Reap(ctx context.Context) (int, error) {
	reaped := 0
	iter := s.client.Scan(ctx, 0, ownerKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		idx := iter.Val()
		keys, err := s.client.ZRange(ctx, idx, 0, -1).Result()
		if err != nil {
			return reaped, fmt.Errorf("scan index %s: %w", idx, err)
		}
		for _, key := range keys {
			exists, err := s.client.Exists(ctx, recordKey(key)).Result()
			if err != nil {
				return reaped, fmt.Errorf("check record %s: %w", key, err)
			}
			if exists == 0 {
				if err := s.client.ZRem(ctx, idx, key).Err(); err != nil {
					return reaped, fmt.Errorf("prune index entry %s: %w", key, err)
				}
				reaped++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return reaped, fmt.Errorf("scan owner indexes: %w", err)
	}
	if reaped > 0 {
		s.log.Debug("Pruned stale index entries", zap.Int("count", reaped))
	}
	return reaped, nil
}
