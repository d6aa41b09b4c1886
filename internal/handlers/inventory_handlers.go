package handlers

import (
	"net/http"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles category and subcategory requests of the incoming and outgoing inventories
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

type MainCategoryRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type SubcategoryRequest struct {
	Type         string   `json:"type"`
	CategoryName string   `json:"categoryName"`
	Name         string   `json:"name"`
	Details      []string `json:"details"`
	Price        *float64 `json:"price"`
	Date         *string  `json:"date"`
}

type DeleteSubcategoryRequest struct {
	Type            string `json:"type"`
	CategoryName    string `json:"categoryName"`
	SubcategoryName string `json:"subcategoryName"`
}

type EditSubcategoryRequest struct {
	Type            string    `json:"type"`
	CategoryName    string    `json:"categoryName"`
	SubcategoryName string    `json:"subcategoryName"`
	NewName         *string   `json:"newName"`
	Details         *[]string `json:"details"`
	Price           *float64  `json:"price"`
}

func (h *InventoryHandlers) AddMainCategory(c echo.Context) error {
	var req MainCategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	inv, err := h.inventoryService.AddMainCategory(c.Request().Context(), req.Type, req.Name)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *InventoryHandlers) AddSubcategory(c echo.Context) error {
	var req SubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	date, err := optionalDate(req.Date, "date")
	if err != nil {
		return common.SendError(c, err)
	}

	inv, err := h.inventoryService.AddSubcategory(c.Request().Context(), req.Type, req.CategoryName, services.NewSubcategory{
		Name:    req.Name,
		Details: req.Details,
		Price:   req.Price,
		Date:    date,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *InventoryHandlers) DeleteMainCategory(c echo.Context) error {
	var req MainCategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	inv, err := h.inventoryService.DeleteMainCategory(c.Request().Context(), req.Type, req.Name)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandlers) DeleteSubcategory(c echo.Context) error {
	var req DeleteSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	inv, err := h.inventoryService.DeleteSubcategory(c.Request().Context(), req.Type, req.CategoryName, req.SubcategoryName)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandlers) EditSubcategory(c echo.Context) error {
	var req EditSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	patch := models.SubcategoryPatch{Name: req.NewName, Details: req.Details, Price: req.Price}
	inv, err := h.inventoryService.EditSubcategory(c.Request().Context(), req.Type, req.CategoryName, req.SubcategoryName, patch)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

// GetInventory lists the inventory documents, optionally filtered by ?type=.
func (h *InventoryHandlers) GetInventory(c echo.Context) error {
	inventories, err := h.inventoryService.GetInventory(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, inventories)
}

func (h *InventoryHandlers) ListMainCategories(c echo.Context) error {
	names, err := h.inventoryService.ListMainCategories(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, names)
}
