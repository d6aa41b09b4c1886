package models

import (
	"time"
)

type InventoryType string

const (
	InventoryIncoming InventoryType = "incoming"
	InventoryOutgoing InventoryType = "outgoing"
)

// Valid reports whether t is one of the known inventory types.
func (t InventoryType) Valid() bool {
	return t == InventoryIncoming || t == InventoryOutgoing
}

// Inventory holds the categories of one inventory type. There is at most one document per type.
type Inventory struct {
	ID         string        `json:"id" bson:"_id"`
	Type       InventoryType `json:"type" bson:"type"`
	Categories []Category    `json:"categories" bson:"categories"`
	Date       time.Time     `json:"date" bson:"date"`
}

type Category struct {
	Name          string        `json:"name" bson:"name"`
	Subcategories []Subcategory `json:"subcategories" bson:"subcategories"`
}

// Subcategory is a priced inventory line. Date is when the line was recorded.
type Subcategory struct {
	Name    string    `json:"name" bson:"name"`
	Details []string  `json:"details" bson:"details"`
	Price   float64   `json:"price" bson:"price"`
	Date    time.Time `json:"date" bson:"date"`
}

type SubcategoryPatch struct {
	Name    *string   `json:"name,omitempty" bson:"name,omitempty"`
	Details *[]string `json:"details,omitempty" bson:"details,omitempty"`
	Price   *float64  `json:"price,omitempty" bson:"price,omitempty"`
}

func (p SubcategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Details == nil && p.Price == nil
}

func (p SubcategoryPatch) Apply(s *Subcategory) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Details != nil {
		s.Details = append([]string(nil), (*p.Details)...)
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
}

// FindCategory returns the index of the named category, or -1.
func (inv *Inventory) FindCategory(name string) int {
	for i := range inv.Categories {
		if inv.Categories[i].Name == name {
			return i
		}
	}
	return -1
}

// FindSubcategory returns the index of the named subcategory, or -1.
func (c *Category) FindSubcategory(name string) int {
	for i := range c.Subcategories {
		if c.Subcategories[i].Name == name {
			return i
		}
	}
	return -1
}

// CategoryNames returns the main category names in stored order.
func (inv *Inventory) CategoryNames() []string {
	names := make([]string, 0, len(inv.Categories))
	for _, c := range inv.Categories {
		names = append(names, c.Name)
	}
	return names
}
