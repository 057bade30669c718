package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"basetrack/internal/caching"
	"basetrack/internal/jobs"
	"basetrack/internal/models"
	"basetrack/internal/repositories"
)

const (
	artifactBucket   = "basetrack-artifacts"
	artifactURLValid = 15 * time.Minute
)

// InventoryService owns inventory reads and the write paths that bypass
// the request lifecycle: creation, bulk import, export and clearing.
// Status-degrading edits are not here; they go through RequestService.
type InventoryService interface {
	ListVisible(ctx context.Context, user *models.User, baseFilter string) ([]*models.InventoryItem, error)
	Get(ctx context.Context, id string) (*models.InventoryItem, error)
	Create(ctx context.Context, actor *models.User, item *models.InventoryItem) error

	// Import parses an uploaded sheet and batch-inserts its rows.
	// Returns the number of imported items.
	Import(ctx context.Context, actor *models.User, data []byte, targetBase string) (int, error)

	// Export renders the visible inventory as a sheet, stores it and
	// returns a presigned download URL.
	Export(ctx context.Context, user *models.User, baseFilter string) (string, error)

	// Clear deletes a base's inventory, or everything when base is
	// empty. Admin only; enforced at the route.
	Clear(ctx context.Context, actor *models.User, base string) error
}

type inventoryService struct {
	itemRepo  repositories.ItemRepository
	accessSvc AccessService
	auditSvc  AuditService
	cacheSvc  caching.CacheService
	minioSvc  MinioService
}

func NewInventoryService(itemRepo repositories.ItemRepository, accessSvc AccessService, auditSvc AuditService, cacheSvc caching.CacheService, minioSvc MinioService) InventoryService {
	return &inventoryService{
		itemRepo:  itemRepo,
		accessSvc: accessSvc,
		auditSvc:  auditSvc,
		cacheSvc:  cacheSvc,
		minioSvc:  minioSvc,
	}
}

func (s *inventoryService) ListVisible(ctx context.Context, user *models.User, baseFilter string) ([]*models.InventoryItem, error) {
	var (
		items []*models.InventoryItem
		err   error
	)
	if user.Role == models.RoleAdmin {
		items, err = s.itemRepo.ListAll(ctx)
	} else {
		items, err = s.itemRepo.ListByBase(ctx, user.Base)
	}
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	return s.accessSvc.VisibleItems(user, items, baseFilter), nil
}

func (s *inventoryService) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *inventoryService) Create(ctx context.Context, actor *models.User, item *models.InventoryItem) error {
	if item.ID == "" {
		item.ID = fmt.Sprintf("ITM-%d", time.Now().UnixMilli())
	}
	if item.Base == "" {
		item.Base = actor.Base
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	if err := s.auditSvc.LogActivity(ctx, "item", item.ID, "created", actor.ID.String(), models.JSONB{"description": item.Description}); err != nil {
		log.Printf("Failed to audit item creation %s: %v", item.ID, err)
	}
	s.invalidateStats(ctx, "create")
	return nil
}

func (s *inventoryService) Import(ctx context.Context, actor *models.User, data []byte, targetBase string) (int, error) {
	items, err := jobs.ImportSheet(data, targetBase, actor.Base)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
		return 0, fmt.Errorf("inserting imported items: %w", err)
	}

	if err := s.auditSvc.LogActivity(ctx, "inventory", targetBase, "imported", actor.ID.String(), models.JSONB{"count": len(items)}); err != nil {
		log.Printf("Failed to audit import: %v", err)
	}
	s.invalidateStats(ctx, "import")
	return len(items), nil
}

func (s *inventoryService) Export(ctx context.Context, user *models.User, baseFilter string) (string, error) {
	items, err := s.ListVisible(ctx, user, baseFilter)
	if err != nil {
		return "", err
	}

	sheet, err := jobs.ExportSheet(items)
	if err != nil {
		return "", err
	}

	if err := s.minioSvc.EnsureBucketExists(ctx, artifactBucket); err != nil {
		return "", fmt.Errorf("preparing artifact bucket: %w", err)
	}

	scope := baseFilter
	if user.Role != models.RoleAdmin {
		scope = user.Base
	}
	objectName := fmt.Sprintf("exports/%d-%s", time.Now().UnixMilli(), jobs.ExportFilename(scope))
	if err := s.minioSvc.UploadArtifact(ctx, artifactBucket, objectName, "text/csv", bytes.NewReader(sheet), int64(len(sheet))); err != nil {
		return "", fmt.Errorf("storing export: %w", err)
	}

	url, err := s.minioSvc.GetPresignedURL(ctx, artifactBucket, objectName, artifactURLValid)
	if err != nil {
		return "", fmt.Errorf("presigning export: %w", err)
	}
	return url, nil
}

func (s *inventoryService) Clear(ctx context.Context, actor *models.User, base string) error {
	var err error
	if base == "" {
		err = s.itemRepo.DeleteAll(ctx)
	} else {
		err = s.itemRepo.DeleteByBase(ctx, base)
	}
	if err != nil {
		return fmt.Errorf("clearing inventory: %w", err)
	}

	scope := base
	if scope == "" {
		scope = "all"
	}
	if err := s.auditSvc.LogActivity(ctx, "inventory", scope, "cleared", actor.ID.String(), nil); err != nil {
		log.Printf("Failed to audit inventory clear: %v", err)
	}
	s.invalidateStats(ctx, "clear")
	return nil
}

func (s *inventoryService) invalidateStats(ctx context.Context, cause string) {
	if err := s.cacheSvc.InvalidateBaseStats(ctx); err != nil {
		log.Printf("Failed to invalidate stats cache after %s: %v", cause, err)
	}
}
