package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware stamps API and build version headers on every response.
type VersionMiddleware struct {
	current      APIVersion
	buildVersion string
}

func NewVersionMiddleware(buildVersion string) *VersionMiddleware {
	return &VersionMiddleware{
		current: APIVersion{
			Version: "v1",
			Status:  "active",
			Message: "Current stable API version",
		},
		buildVersion: buildVersion,
	}
}

// Deprecate marks the current API version as deprecated until sunset.
func (vm *VersionMiddleware) Deprecate(message string, sunset time.Time) {
	vm.current.Status = "deprecated"
	vm.current.Message = message
	vm.current.SunsetDate = &sunset
}

func (vm *VersionMiddleware) Current() APIVersion {
	return vm.current
}

func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", vm.current.Version)
			if vm.buildVersion != "" {
				h.Set("X-App-Version", vm.buildVersion)
			}
			if vm.current.Status == "deprecated" && vm.current.SunsetDate != nil {
				h.Set("X-API-Deprecated", "true")
				h.Set("X-API-Sunset", vm.current.SunsetDate.Format(time.RFC3339))
				h.Set("Warning", "299 acmeledger \"This API version is deprecated and will be removed on "+vm.current.SunsetDate.Format("2006-01-02")+"\"")
			}
			if vm.current.Message != "" {
				h.Set("X-API-Message", vm.current.Message)
			}
			return next(c)
		}
	}
}
