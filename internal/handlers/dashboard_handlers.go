package handlers

import (
	"net/http"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers handles dashboard company requests. Companies are addressed by name.
type DashboardHandlers struct {
	dashboardService services.DashboardCompanyService
}

func NewDashboardHandlers(dashboardService services.DashboardCompanyService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

type CompanyNameRequest struct {
	Name string `json:"name" query:"name"`
}

type AddDashRecordRequest struct {
	CompanyName string   `json:"companyName"`
	Date        *string  `json:"date"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
}

type EditDashRecordRequest struct {
	CompanyName string   `json:"companyName"`
	RecordID    string   `json:"recordId"`
	Date        *string  `json:"date"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
}

type DeleteDashRecordRequest struct {
	CompanyName string `json:"companyName"`
	RecordID    string `json:"recordId"`
}

func (h *DashboardHandlers) AddCompany(c echo.Context) error {
	var req CompanyNameRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	company, err := h.dashboardService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Company added successfully",
		"company": company,
	})
}

func (h *DashboardHandlers) AddRecord(c echo.Context) error {
	var req AddDashRecordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	date, err := optionalDate(req.Date, "date")
	if err != nil {
		return common.SendError(c, err)
	}

	company, err := h.dashboardService.AddRecord(c.Request().Context(), req.CompanyName, services.NewDashRecord{
		Date:        date,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Record added successfully",
		"company": company,
	})
}

func (h *DashboardHandlers) EditRecord(c echo.Context) error {
	var req EditDashRecordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	date, err := optionalDate(req.Date, "date")
	if err != nil {
		return common.SendError(c, err)
	}

	patch := models.DashRecordPatch{Date: date, Amount: req.Amount, Description: req.Description}
	company, err := h.dashboardService.EditRecord(c.Request().Context(), req.CompanyName, req.RecordID, patch)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Record updated successfully",
		"company": company,
	})
}

func (h *DashboardHandlers) DeleteRecord(c echo.Context) error {
	var req DeleteDashRecordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	company, err := h.dashboardService.DeleteRecord(c.Request().Context(), req.CompanyName, req.RecordID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Record deleted successfully",
		"company": company,
	})
}

func (h *DashboardHandlers) ListCompanies(c echo.Context) error {
	companies, err := h.dashboardService.List(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, companies)
}

func (h *DashboardHandlers) GetCompanyByName(c echo.Context) error {
	company, err := h.dashboardService.GetByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *DashboardHandlers) DeleteCompany(c echo.Context) error {
	var req CompanyNameRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.dashboardService.DeleteByName(c.Request().Context(), req.Name); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Company deleted successfully"})
}
