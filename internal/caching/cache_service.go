package caching

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"basetrack/internal/models"

	"github.com/redis/go-redis/v9"
)

const baseStatsKey = "stats:bases"

// CacheService caches derived read-side state. Cache failures are reported
// to the caller but must never fail the operation that triggered them.
type CacheService interface {
	// Base stats snapshot
	GetBaseStats(ctx context.Context) ([]models.BaseStats, error)
	SetBaseStats(ctx context.Context, stats []models.BaseStats, ttl time.Duration) error
	InvalidateBaseStats(ctx context.Context) error

	// Generic string operations for token management
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects a redis-backed cache. A failed ping is
// logged, not fatal, so the service starts even when redis is down.
func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

// GetBaseStats returns the cached snapshot, or (nil, nil) on a miss.
func (s *redisCacheService) GetBaseStats(ctx context.Context) ([]models.BaseStats, error) {
	data, err := s.client.Get(ctx, baseStatsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats []models.BaseStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *redisCacheService) SetBaseStats(ctx context.Context, stats []models.BaseStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, baseStatsKey, data, ttl).Err()
}

func (s *redisCacheService) InvalidateBaseStats(ctx context.Context) error {
	return s.client.Del(ctx, baseStatsKey).Err()
}

func (s *redisCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, err
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
