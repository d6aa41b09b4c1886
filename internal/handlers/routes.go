package handlers

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every handler set mounted by RegisterRoutes.
type Handlers struct {
	Companies *CompanyHandlers
	Dashboard *DashboardHandlers
	Inventory *InventoryHandlers
	Users     *UserHandlers
	Reports   *ReportHandlers
	Health    *HealthHandlers
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)

	api := e.Group("/api")

	companies := api.Group("/companies")
	companies.POST("/add", h.Companies.CreateCompany)
	companies.POST("/:id/records/add", h.Companies.AddRecord)
	companies.PUT("/update/:id", h.Companies.UpdateCompany)
	companies.DELETE("/delete/:id", h.Companies.DeleteCompany)
	companies.GET("/names", h.Companies.ListCompanyNames)
	companies.GET("/report", h.Reports.AllCompaniesReport)
	companies.GET("/:id", h.Companies.GetCompany)
	companies.GET("/:id/report", h.Reports.CompanyReport)
	companies.PUT("/:companyId/records/:recordId", h.Companies.UpdateRecord)
	companies.DELETE("/:companyId/records/:recordId", h.Companies.DeleteRecord)

	dashboard := api.Group("/dashboard")
	dashboard.POST("/add-company", h.Dashboard.AddCompany)
	dashboard.POST("/add-record", h.Dashboard.AddRecord)
	dashboard.PUT("/edit-record", h.Dashboard.EditRecord)
	dashboard.DELETE("/delete-record", h.Dashboard.DeleteRecord)
	dashboard.GET("/get-all-companies", h.Dashboard.ListCompanies)
	dashboard.GET("/by-name", h.Dashboard.GetCompanyByName)
	dashboard.DELETE("/delete-company", h.Dashboard.DeleteCompany)
	dashboard.GET("/generate-report/:companyId", h.Reports.DashboardReport)
	dashboard.GET("/generate-full-report", h.Reports.FullDashboardReport)
	dashboard.POST("/generate-report/:companyId/archive", h.Reports.ArchiveDashboardReport)
	dashboard.POST("/generate-full-report/archive", h.Reports.ArchiveFullDashboardReport)

	inventory := api.Group("/inventory")
	inventory.POST("/add-main-category", h.Inventory.AddMainCategory)
	inventory.POST("/add-subcategory", h.Inventory.AddSubcategory)
	inventory.POST("/delete-main-category", h.Inventory.DeleteMainCategory)
	inventory.POST("/delete-subcategory", h.Inventory.DeleteSubcategory)
	inventory.PUT("/edit-subcategory", h.Inventory.EditSubcategory)
	inventory.GET("", h.Inventory.GetInventory)
	inventory.GET("/categories", h.Inventory.ListMainCategories)

	pdf := api.Group("/pdf")
	pdf.GET("/incoming", h.Reports.IncomingReport)
	pdf.GET("/outgoing", h.Reports.OutgoingReport)

	users := api.Group("/users")
	users.GET("", h.Users.ListUsers)
	users.POST("", h.Users.CreateUser)
	users.PATCH("", h.Users.UpdateUser)
	users.DELETE("", h.Users.DeleteUser)
	users.GET("/:id", h.Users.GetUser)

	api.POST("/register", h.Users.Register)
}
