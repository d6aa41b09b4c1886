package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const (
	selectInventorySQL = `SELECT id, type, categories, date FROM inventories WHERE type = $1`
	listInventoriesSQL = `SELECT id, type, categories, date FROM inventories ORDER BY type ASC`
	lockInventorySQL   = `SELECT id, type, categories, date FROM inventories WHERE type = $1 FOR UPDATE`
	saveInventorySQL   = `UPDATE inventories SET categories = $2::jsonb WHERE id = $1`

	ensureInventorySQL = `
		INSERT INTO inventories (id, type, categories, date)
		VALUES ($1, $2, '[]'::jsonb, NOW())
		ON CONFLICT (type) DO NOTHING`
)

type inventoryRepo struct {
	db DB
}

func NewInventoryRepo(db DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) GetByType(ctx context.Context, invType models.InventoryType) (*models.Inventory, error) {
	inv, err := scanInventory(r.db.QueryRow(ctx, selectInventorySQL, string(invType)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Inventory not found")
	}
	if err != nil {
		return nil, common.StoreError("load inventory", err)
	}
	return inv, nil
}

func (r *inventoryRepo) List(ctx context.Context) ([]*models.Inventory, error) {
	rows, err := r.db.Query(ctx, listInventoriesSQL)
	if err != nil {
		return nil, common.StoreError("list inventories", err)
	}
	defer rows.Close()

	inventories := []*models.Inventory{}
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, common.StoreError("scan inventory", err)
		}
		inventories = append(inventories, inv)
	}
	return inventories, common.StoreError("list inventories", rows.Err())
}

func (r *inventoryRepo) AddCategory(ctx context.Context, invType models.InventoryType, name string) (*models.Inventory, error) {
	return r.mutate(ctx, invType, true, func(inv *models.Inventory) error {
		return AddCategoryTo(inv, name)
	})
}

func (r *inventoryRepo) DeleteCategory(ctx context.Context, invType models.InventoryType, name string) (*models.Inventory, error) {
	return r.mutate(ctx, invType, false, func(inv *models.Inventory) error {
		return RemoveCategoryFrom(inv, name)
	})
}

func (r *inventoryRepo) AddSubcategory(ctx context.Context, invType models.InventoryType, category string, sub models.Subcategory) (*models.Inventory, error) {
	return r.mutate(ctx, invType, false, func(inv *models.Inventory) error {
		return AddSubcategoryTo(inv, category, sub)
	})
}

func (r *inventoryRepo) UpdateSubcategory(ctx context.Context, invType models.InventoryType, category, name string, patch models.SubcategoryPatch) (*models.Inventory, error) {
	if patch.IsEmpty() {
		inv, err := r.GetByType(ctx, invType)
		if err != nil {
			return nil, err
		}
		if err := PatchSubcategoryIn(inv, category, name, patch); err != nil {
			return nil, err
		}
		return inv, nil
	}
	return r.mutate(ctx, invType, false, func(inv *models.Inventory) error {
		return PatchSubcategoryIn(inv, category, name, patch)
	})
}

func (r *inventoryRepo) DeleteSubcategory(ctx context.Context, invType models.InventoryType, category, name string) (*models.Inventory, error) {
	return r.mutate(ctx, invType, false, func(inv *models.Inventory) error {
		return RemoveSubcategoryFrom(inv, category, name)
	})
}

// mutate applies fn to the inventory of invType while holding its row lock.
// With create set, a missing inventory document is inserted first.
func (r *inventoryRepo) mutate(ctx context.Context, invType models.InventoryType, create bool, fn func(*models.Inventory) error) (*models.Inventory, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, common.StoreError("begin inventory transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Warn().Err(rbErr).Msg("inventory transaction rollback failed")
		}
	}()

	if create {
		if _, err := tx.Exec(ctx, ensureInventorySQL, uuid.NewString(), string(invType)); err != nil {
			return nil, common.StoreError("create inventory", err)
		}
	}

	inv, err := scanInventory(tx.QueryRow(ctx, lockInventorySQL, string(invType)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Inventory not found")
	}
	if err != nil {
		return nil, common.StoreError("lock inventory", err)
	}

	if err := fn(inv); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(inv.Categories)
	if err != nil {
		return nil, common.StoreError("encode categories", err)
	}
	if _, err := tx.Exec(ctx, saveInventorySQL, inv.ID, string(raw)); err != nil {
		return nil, common.StoreError("save inventory", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.StoreError("commit inventory", err)
	}
	return inv, nil
}

func scanInventory(row pgx.Row) (*models.Inventory, error) {
	var (
		inv     models.Inventory
		invType string
		raw     []byte
	)
	if err := row.Scan(&inv.ID, &invType, &raw, &inv.Date); err != nil {
		return nil, err
	}
	inv.Type = models.InventoryType(invType)
	if err := decodeJSONArray(raw, &inv.Categories); err != nil {
		return nil, err
	}
	if inv.Categories == nil {
		inv.Categories = []models.Category{}
	}
	for i := range inv.Categories {
		if inv.Categories[i].Subcategories == nil {
			inv.Categories[i].Subcategories = []models.Subcategory{}
		}
	}
	return &inv, nil
}
