package mongostore

import (
	"context"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type inventoryRepo struct {
	coll *mongo.Collection
}

func (r *inventoryRepo) GetByType(ctx context.Context, invType models.InventoryType) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.coll.FindOne(ctx, bson.M{"type": invType}).Decode(&inv)
	if isNoDocuments(err) {
		return nil, common.NotFound("Inventory not found")
	}
	if err != nil {
		return nil, common.StoreError("load inventory", err)
	}
	return normalizeInventory(&inv), nil
}

func (r *inventoryRepo) List(ctx context.Context) ([]*models.Inventory, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "type", Value: 1}}))
	if err != nil {
		return nil, common.StoreError("list inventories", err)
	}
	inventories := []*models.Inventory{}
	if err := cur.All(ctx, &inventories); err != nil {
		return nil, common.StoreError("decode inventories", err)
	}
	for _, inv := range inventories {
		normalizeInventory(inv)
	}
	return inventories, nil
}

func (r *inventoryRepo) AddCategory(ctx context.Context, invType models.InventoryType, name string) (*models.Inventory, error) {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"type": invType},
		bson.M{"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"type":       invType,
			"categories": []models.Category{},
			"date":       time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, common.StoreError("create inventory", err)
	}

	return r.update(ctx, invType,
		bson.M{"type": invType, "categories.name": bson.M{"$ne": name}},
		bson.M{"$push": bson.M{"categories": models.Category{Name: name, Subcategories: []models.Subcategory{}}}},
		nil,
		func(inv *models.Inventory) error { return repositories.AddCategoryTo(inv, name) },
	)
}

func (r *inventoryRepo) DeleteCategory(ctx context.Context, invType models.InventoryType, name string) (*models.Inventory, error) {
	return r.update(ctx, invType,
		bson.M{"type": invType, "categories.name": name},
		bson.M{"$pull": bson.M{"categories": bson.M{"name": name}}},
		nil,
		func(inv *models.Inventory) error { return repositories.RemoveCategoryFrom(inv, name) },
	)
}

func (r *inventoryRepo) AddSubcategory(ctx context.Context, invType models.InventoryType, category string, sub models.Subcategory) (*models.Inventory, error) {
	if sub.Details == nil {
		sub.Details = []string{}
	}
	return r.update(ctx, invType,
		bson.M{"type": invType, "categories": bson.M{"$elemMatch": bson.M{
			"name":               category,
			"subcategories.name": bson.M{"$ne": sub.Name},
		}}},
		bson.M{"$push": bson.M{"categories.$.subcategories": sub}},
		nil,
		func(inv *models.Inventory) error { return repositories.AddSubcategoryTo(inv, category, sub) },
	)
}

func (r *inventoryRepo) UpdateSubcategory(ctx context.Context, invType models.InventoryType, category, name string, patch models.SubcategoryPatch) (*models.Inventory, error) {
	nameCond := bson.M{"$eq": name}
	fields := bson.M{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
		if *patch.Name != name {
			nameCond["$ne"] = *patch.Name
		}
	}
	if patch.Details != nil {
		fields["details"] = *patch.Details
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}

	filter := bson.M{"type": invType, "categories": bson.M{"$elemMatch": bson.M{
		"name":               category,
		"subcategories.name": nameCond,
	}}}
	check := func(inv *models.Inventory) error { return repositories.PatchSubcategoryIn(inv, category, name, patch) }

	if patch.IsEmpty() {
		var inv models.Inventory
		err := r.coll.FindOne(ctx, filter).Decode(&inv)
		if isNoDocuments(err) {
			return nil, r.diagnose(ctx, invType, check)
		}
		if err != nil {
			return nil, common.StoreError("load inventory", err)
		}
		return normalizeInventory(&inv), nil
	}

	arrayFilters := options.ArrayFilters{Filters: []interface{}{
		bson.M{"c.name": category},
		bson.M{"s.name": name},
	}}
	return r.update(ctx, invType, filter,
		bson.M{"$set": setFields("categories.$[c].subcategories.$[s].", fields)},
		&arrayFilters,
		check,
	)
}

func (r *inventoryRepo) DeleteSubcategory(ctx context.Context, invType models.InventoryType, category, name string) (*models.Inventory, error) {
	return r.update(ctx, invType,
		bson.M{"type": invType, "categories": bson.M{"$elemMatch": bson.M{
			"name":               category,
			"subcategories.name": name,
		}}},
		bson.M{"$pull": bson.M{"categories.$.subcategories": bson.M{"name": name}}},
		nil,
		func(inv *models.Inventory) error { return repositories.RemoveSubcategoryFrom(inv, category, name) },
	)
}

// update runs a guarded single-document update. When the guard matches nothing,
// check is replayed on the current document to name the precise failure.
func (r *inventoryRepo) update(ctx context.Context, invType models.InventoryType, filter, update bson.M, arrayFilters *options.ArrayFilters, check func(*models.Inventory) error) (*models.Inventory, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if arrayFilters != nil {
		opts.SetArrayFilters(*arrayFilters)
	}

	var inv models.Inventory
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&inv)
	if isNoDocuments(err) {
		return nil, r.diagnose(ctx, invType, check)
	}
	if err != nil {
		return nil, common.StoreError("update inventory", err)
	}
	return normalizeInventory(&inv), nil
}

func (r *inventoryRepo) diagnose(ctx context.Context, invType models.InventoryType, check func(*models.Inventory) error) error {
	inv, err := r.GetByType(ctx, invType)
	if err != nil {
		return err
	}
	if err := check(inv); err != nil {
		return err
	}
	return common.Conflict("Inventory was modified concurrently, please retry")
}

func normalizeInventory(inv *models.Inventory) *models.Inventory {
	if inv.Categories == nil {
		inv.Categories = []models.Category{}
	}
	for i := range inv.Categories {
		if inv.Categories[i].Subcategories == nil {
			inv.Categories[i].Subcategories = []models.Subcategory{}
		}
	}
	return inv
}
