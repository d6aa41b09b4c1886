package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"acmeledger/internal/caching"
	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories"
)

// NewSubcategory is the input of AddSubcategory.
type NewSubcategory struct {
	Name    string
	Details []string
	Price   *float64
	Date    *time.Time
}

type InventoryService interface {
	AddMainCategory(ctx context.Context, invType, name string) (*models.Inventory, error)
	AddSubcategory(ctx context.Context, invType, category string, input NewSubcategory) (*models.Inventory, error)
	EditSubcategory(ctx context.Context, invType, category, name string, patch models.SubcategoryPatch) (*models.Inventory, error)
	DeleteMainCategory(ctx context.Context, invType, name string) (*models.Inventory, error)
	DeleteSubcategory(ctx context.Context, invType, category, name string) (*models.Inventory, error)
	// GetInventory returns every inventory document, or only the one of invType when it is set.
	GetInventory(ctx context.Context, invType string) ([]*models.Inventory, error)
	ListMainCategories(ctx context.Context, invType string) ([]string, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	cacheService  caching.CacheService
	now           func() time.Time
}

func NewInventoryService(inventoryRepo repositories.InventoryRepository, cacheService caching.CacheService) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		cacheService:  cacheService,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ParseInventoryType validates a raw type value.
func ParseInventoryType(raw string) (models.InventoryType, error) {
	t := models.InventoryType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return "", common.Validation("type", "type is required")
	}
	if !t.Valid() {
		return "", common.Validation("type", "type must be incoming or outgoing")
	}
	return t, nil
}

func (s *inventoryService) AddMainCategory(ctx context.Context, invType, name string) (*models.Inventory, error) {
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	return s.written(ctx)(s.inventoryRepo.AddCategory(ctx, t, name))
}

func (s *inventoryService) AddSubcategory(ctx context.Context, invType, category string, input NewSubcategory) (*models.Inventory, error) {
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(category, "category"); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	if input.Price == nil {
		return nil, common.Validation("price", "price is required")
	}

	sub := models.Subcategory{
		Name:    name,
		Details: append([]string{}, input.Details...),
		Price:   *input.Price,
		Date:    s.now(),
	}
	if input.Date != nil {
		sub.Date = input.Date.UTC()
	}
	return s.written(ctx)(s.inventoryRepo.AddSubcategory(ctx, t, category, sub))
}

func (s *inventoryService) EditSubcategory(ctx context.Context, invType, category, name string, patch models.SubcategoryPatch) (*models.Inventory, error) {
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(category, "category"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, common.Validation("newName", "newName must not be blank")
		}
		patch.Name = &trimmed
	}
	return s.written(ctx)(s.inventoryRepo.UpdateSubcategory(ctx, t, category, name, patch))
}

func (s *inventoryService) DeleteMainCategory(ctx context.Context, invType, name string) (*models.Inventory, error) {
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	return s.written(ctx)(s.inventoryRepo.DeleteCategory(ctx, t, name))
}

func (s *inventoryService) DeleteSubcategory(ctx context.Context, invType, category, name string) (*models.Inventory, error) {
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(category, "category"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	return s.written(ctx)(s.inventoryRepo.DeleteSubcategory(ctx, t, category, name))
}

func (s *inventoryService) GetInventory(ctx context.Context, invType string) ([]*models.Inventory, error) {
	if strings.TrimSpace(invType) == "" {
		return s.inventoryRepo.List(ctx)
	}
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	inv, err := s.inventoryRepo.GetByType(ctx, t)
	if errors.Is(err, common.ErrNotFound) {
		return []*models.Inventory{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []*models.Inventory{inv}, nil
}

func (s *inventoryService) ListMainCategories(ctx context.Context, invType string) ([]string, error) {
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	inv, err := s.inventoryRepo.GetByType(ctx, t)
	if err != nil {
		return nil, err
	}
	return inv.CategoryNames(), nil
}

// written invalidates cached inventory reports when a write succeeded and passes its result through.
func (s *inventoryService) written(ctx context.Context) func(*models.Inventory, error) (*models.Inventory, error) {
	return func(inv *models.Inventory, err error) (*models.Inventory, error) {
		if err != nil {
			return nil, err
		}
		invalidateReports(ctx, s.cacheService, models.ReportKindInventory)
		return inv, nil
	}
}
