package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"basetrack/internal/caching"
	"basetrack/internal/models"
	"basetrack/internal/repositories"
)

const statsCacheTTL = 5 * time.Minute

// StatsService aggregates inventory snapshots into per-base dashboard
// counters. Aggregation is a pure fold over items; the cached variants wrap
// it with the Redis snapshot so dashboards do not re-scan the table on every
// request.
type StatsService interface {
	// Aggregate folds a snapshot into a single counter set.
	Aggregate(items []*models.InventoryItem) models.BaseStats

	// PerBase groups a snapshot by base and appends a grand-total row.
	// Bases are ordered numerically-aware, so "Base 2" sorts before
	// "Base 10".
	PerBase(items []*models.InventoryItem) []models.BaseStats

	// PerBaseCached serves the per-base breakdown from cache, falling
	// back to a full recompute on miss.
	PerBaseCached(ctx context.Context) ([]models.BaseStats, error)

	// Refresh recomputes the per-base breakdown and rewrites the cache.
	Refresh(ctx context.Context) error
}

type statsService struct {
	itemRepo repositories.ItemRepository
	cacheSvc caching.CacheService
}

func NewStatsService(itemRepo repositories.ItemRepository, cacheSvc caching.CacheService) StatsService {
	return &statsService{itemRepo: itemRepo, cacheSvc: cacheSvc}
}

func (s *statsService) Aggregate(items []*models.InventoryItem) models.BaseStats {
	stats := models.BaseStats{}
	for _, item := range items {
		stats.AddItem(item)
	}
	return stats
}

func (s *statsService) PerBase(items []*models.InventoryItem) []models.BaseStats {
	byBase := make(map[string]*models.BaseStats)
	for _, item := range items {
		base := item.Base
		if base == "" {
			base = "Unassigned"
		}
		stats, ok := byBase[base]
		if !ok {
			stats = &models.BaseStats{BaseName: base}
			byBase[base] = stats
		}
		stats.AddItem(item)
	}

	names := make([]string, 0, len(byBase))
	for name := range byBase {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })

	result := make([]models.BaseStats, 0, len(byBase)+1)
	total := models.BaseStats{BaseName: "All Bases"}
	for _, name := range names {
		result = append(result, *byBase[name])
		total.Merge(*byBase[name])
	}
	result = append(result, total)
	return result
}

func (s *statsService) PerBaseCached(ctx context.Context) ([]models.BaseStats, error) {
	if cached, err := s.cacheSvc.GetBaseStats(ctx); err == nil && cached != nil {
		return cached, nil
	}

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inventory for stats: %w", err)
	}

	stats := s.PerBase(items)
	if err := s.cacheSvc.SetBaseStats(ctx, stats, statsCacheTTL); err != nil {
		log.Printf("Failed to cache base stats: %v", err)
	}
	return stats, nil
}

func (s *statsService) Refresh(ctx context.Context) error {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading inventory for stats refresh: %w", err)
	}
	return s.cacheSvc.SetBaseStats(ctx, s.PerBase(items), statsCacheTTL)
}

// naturalLess compares strings with embedded digit runs numerically, so
// "Base 2" < "Base 10". Comparison is otherwise byte-wise.
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// Compare whole digit runs: longer run of significant
			// digits wins, equal lengths compare lexically.
			ia, ja := i, j
			for ia < len(a) && isDigit(a[ia]) {
				ia++
			}
			for ja < len(b) && isDigit(b[ja]) {
				ja++
			}
			na, nb := trimZeros(a[i:ia]), trimZeros(b[j:ja])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			i, j = ia, ja
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
