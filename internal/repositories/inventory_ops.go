package repositories

import (
	"acmeledger/internal/common"
	"acmeledger/internal/models"
)

// The functions below mutate a locked or privately held inventory document.
// Backends that cannot express a change as a single store operation apply them
// inside their own critical section.

func AddCategoryTo(inv *models.Inventory, name string) error {
	if inv.FindCategory(name) >= 0 {
		return common.Conflict("Category %q already exists", name)
	}
	inv.Categories = append(inv.Categories, models.Category{Name: name, Subcategories: []models.Subcategory{}})
	return nil
}

func RemoveCategoryFrom(inv *models.Inventory, name string) error {
	i := inv.FindCategory(name)
	if i < 0 {
		return common.NotFound("Category not found")
	}
	inv.Categories = append(inv.Categories[:i], inv.Categories[i+1:]...)
	return nil
}

func AddSubcategoryTo(inv *models.Inventory, category string, sub models.Subcategory) error {
	i := inv.FindCategory(category)
	if i < 0 {
		return common.NotFound("Category not found")
	}
	cat := &inv.Categories[i]
	if cat.FindSubcategory(sub.Name) >= 0 {
		return common.Conflict("Subcategory %q already exists", sub.Name)
	}
	cat.Subcategories = append(cat.Subcategories, sub)
	return nil
}

func PatchSubcategoryIn(inv *models.Inventory, category, name string, patch models.SubcategoryPatch) error {
	i := inv.FindCategory(category)
	if i < 0 {
		return common.NotFound("Category not found")
	}
	cat := &inv.Categories[i]
	j := cat.FindSubcategory(name)
	if j < 0 {
		return common.NotFound("Subcategory not found")
	}
	if patch.Name != nil && *patch.Name != name && cat.FindSubcategory(*patch.Name) >= 0 {
		return common.Conflict("Subcategory %q already exists", *patch.Name)
	}
	patch.Apply(&cat.Subcategories[j])
	return nil
}

func RemoveSubcategoryFrom(inv *models.Inventory, category, name string) error {
	i := inv.FindCategory(category)
	if i < 0 {
		return common.NotFound("Category not found")
	}
	cat := &inv.Categories[i]
	j := cat.FindSubcategory(name)
	if j < 0 {
		return common.NotFound("Subcategory not found")
	}
	cat.Subcategories = append(cat.Subcategories[:j], cat.Subcategories[j+1:]...)
	return nil
}
