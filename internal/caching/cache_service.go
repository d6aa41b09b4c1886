package caching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"acmeledger/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "acme:report"

// ReportKey identifies one rendered report: its entity kind, the entity (or "all"
// or the inventory type) and the requested date range.
type ReportKey struct {
	Kind   models.ReportKind
	Entity string
	Range  models.DateRange
}

func (k ReportKey) String() string {
	from, to := k.Range.Key()
	return fmt.Sprintf("%s:%s:%s:%s:%s", keyPrefix, k.Kind, k.Entity, from, to)
}

// CacheService stores rendered report bytes. A miss is reported as (nil, false, nil).
type CacheService interface {
	GetReport(ctx context.Context, key ReportKey) ([]byte, bool, error)
	SetReport(ctx context.Context, key ReportKey, data []byte, ttl time.Duration) error
	// InvalidateKind drops every cached report of kind.
	InvalidateKind(ctx context.Context, kind models.ReportKind) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Parse Redis URL to extract host:port if protocol is included
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	log.Debug().Str("address", parsedAddr).Str("original", addr).Msg("Creating Redis client")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("address", parsedAddr).Msg("Redis ping failed on initialization")
	} else {
		log.Debug().Msg("Redis connection established successfully")
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetReport(ctx context.Context, key ReportKey) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil // cache miss
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *redisCacheService) SetReport(ctx context.Context, key ReportKey, data []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key.String(), data, ttl).Err()
}

// InvalidateKind deletes the matching keys in SCAN batches.
func (r *redisCacheService) InvalidateKind(ctx context.Context, kind models.ReportKind) error {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, kind)
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopCacheService struct{}

// NewNoopCacheService returns a cache that never stores anything, used when Redis is not configured.
func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetReport(context.Context, ReportKey) ([]byte, bool, error) {
	return nil, false, nil
}

func (noopCacheService) SetReport(context.Context, ReportKey, []byte, time.Duration) error {
	return nil
}

func (noopCacheService) InvalidateKind(context.Context, models.ReportKind) error {
	return nil
}

func (noopCacheService) Ping(context.Context) error {
	return nil
}
