package handlers

import (
	"net/http"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/services"

	"github.com/labstack/echo/v4"
)

// CompanyHandlers handles company and company record requests
type CompanyHandlers struct {
	companyService services.CompanyService
}

func NewCompanyHandlers(companyService services.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companyService: companyService}
}

// CreateCompanyRequest represents the company creation payload
type CreateCompanyRequest struct {
	Name    string          `json:"name"`
	Records []RecordRequest `json:"records"`
}

// UpdateCompanyRequest holds the top-level fields to replace
type UpdateCompanyRequest struct {
	Name    *string          `json:"name"`
	Records *[]RecordRequest `json:"records"`
}

func (h *CompanyHandlers) CreateCompany(c echo.Context) error {
	var req CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	records, err := recordsToModels(req.Records)
	if err != nil {
		return common.SendError(c, err)
	}

	company, err := h.companyService.Create(c.Request().Context(), req.Name, records)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandlers) AddRecord(c echo.Context) error {
	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	record, err := req.toModel("")
	if err != nil {
		return common.SendError(c, err)
	}

	company, err := h.companyService.AddRecord(c.Request().Context(), c.Param("id"), record)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandlers) UpdateCompany(c echo.Context) error {
	var req UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	patch := models.CompanyPatch{Name: req.Name}
	if req.Records != nil {
		records, err := recordsToModels(*req.Records)
		if err != nil {
			return common.SendError(c, err)
		}
		patch.Records = &records
	}

	company, err := h.companyService.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHandlers) DeleteCompany(c echo.Context) error {
	if err := h.companyService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Company deleted successfully"})
}

// ListCompanyNames returns the id and name of every company
func (h *CompanyHandlers) ListCompanyNames(c echo.Context) error {
	names, err := h.companyService.ListNames(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, names)
}

func (h *CompanyHandlers) GetCompany(c echo.Context) error {
	company, err := h.companyService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHandlers) UpdateRecord(c echo.Context) error {
	var req RecordPatchRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	patch, err := req.toModel()
	if err != nil {
		return common.SendError(c, err)
	}

	company, err := h.companyService.UpdateRecord(c.Request().Context(), c.Param("companyId"), c.Param("recordId"), patch)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHandlers) DeleteRecord(c echo.Context) error {
	company, err := h.companyService.DeleteRecord(c.Request().Context(), c.Param("companyId"), c.Param("recordId"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Record deleted successfully",
		"company": company,
	})
}
