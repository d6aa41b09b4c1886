package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
	"time"

	"acmeledger/internal/caching"
	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories/memory"
	"acmeledger/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubArchiver struct {
	archived []string
}

func (s *stubArchiver) Archive(_ context.Context, report *services.Report, prefix string) (*services.ArchivedReport, error) {
	object := path.Join(prefix, report.Filename)
	s.archived = append(s.archived, object)
	return &services.ArchivedReport{ObjectName: object, URL: "https://minio.local/" + object, ExpiresIn: 24 * time.Hour}, nil
}

func newTestServer(t *testing.T, archiver services.ReportArchiver) *echo.Echo {
	t.Helper()
	store := memory.New().Repositories()
	cache := caching.NewNoopCacheService()

	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	RegisterRoutes(e, Handlers{
		Companies: NewCompanyHandlers(services.NewCompanyService(store.Companies, cache)),
		Dashboard: NewDashboardHandlers(services.NewDashboardCompanyService(store.DashboardCompanies, cache)),
		Inventory: NewInventoryHandlers(services.NewInventoryService(store.Inventories, cache)),
		Users:     NewUserHandlers(services.NewUserServiceWithCost(store.Users, bcrypt.MinCost)),
		Reports:   NewReportHandlers(services.NewReportService(services.ReportConfig{Store: store, Cache: cache}), archiver),
		Health:    NewHealthHandlers(store.Ping, cache, "test"),
	})
	return e
}

func do(t *testing.T, e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCompanyRoutes_Lifecycle(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodPost, "/api/companies/add", map[string]interface{}{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	company := decode[models.Company](t, rec)
	assert.Equal(t, "Acme", company.Name)
	assert.Empty(t, company.Records)

	rec = do(t, e, http.MethodPost, "/api/companies/"+company.ID+"/records/add", map[string]interface{}{
		"date": "2024-01-15", "invoiceNo": "INV1", "containerNo": "C1", "product": "Copper", "advance": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	company = decode[models.Company](t, rec)
	require.Len(t, company.Records, 1)
	record := company.Records[0]
	assert.Equal(t, "100", record.Advance)

	rec = do(t, e, http.MethodPut, "/api/companies/"+company.ID+"/records/"+record.ID, map[string]interface{}{"product": "Brass"})
	require.Equal(t, http.StatusOK, rec.Code)
	company = decode[models.Company](t, rec)
	assert.Equal(t, "Brass", company.Records[0].Product)
	assert.Equal(t, "INV1", company.Records[0].InvoiceNo)

	rec = do(t, e, http.MethodGet, "/api/companies/names", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	names := decode[[]models.CompanyName](t, rec)
	assert.Equal(t, []models.CompanyName{{ID: company.ID, Name: "Acme"}}, names)

	rec = do(t, e, http.MethodDelete, "/api/companies/"+company.ID+"/records/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Record not found", decode[common.ErrorResponse](t, rec).Message)

	rec = do(t, e, http.MethodDelete, "/api/companies/"+company.ID+"/records/"+record.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/companies/update/"+company.ID, map[string]interface{}{"name": "Acme Ltd"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme Ltd", decode[models.Company](t, rec).Name)

	rec = do(t, e, http.MethodDelete, "/api/companies/delete/"+company.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/companies/"+company.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[common.ErrorResponse](t, rec).Code)
}

func TestCompanyRoutes_Validation(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodPost, "/api/companies/add", map[string]interface{}{"name": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[common.ErrorResponse](t, rec).Code)

	rec = do(t, e, http.MethodPost, "/api/companies/add", map[string]interface{}{
		"name":    "Acme",
		"records": []map[string]interface{}{{"invoiceNo": "INV1", "date": "15/01/2024"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[common.ErrorResponse](t, rec)
	assert.Contains(t, resp.Details, "records[0].date")
}

func TestCompanyRoutes_UpdateRecordRejectsBlankFields(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodPost, "/api/companies/add", map[string]interface{}{
		"name":    "Acme",
		"records": []map[string]interface{}{{"date": "2024-01-15", "invoiceNo": "INV1", "containerNo": "C1", "product": "Copper", "advance": "100"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	company := decode[models.Company](t, rec)
	require.Len(t, company.Records, 1)
	path := "/api/companies/" + company.ID + "/records/" + company.Records[0].ID

	rec = do(t, e, http.MethodPut, path, map[string]interface{}{"invoiceNo": "", "advance": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[common.ErrorResponse](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Contains(t, resp.Details, "invoiceNo")

	rec = do(t, e, http.MethodPut, path, map[string]interface{}{"product": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[common.ErrorResponse](t, rec).Details, "product")

	rec = do(t, e, http.MethodGet, "/api/companies/"+company.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[models.Company](t, rec).Records[0]
	assert.Equal(t, "INV1", stored.InvoiceNo)
	assert.Equal(t, "Copper", stored.Product)
	assert.Equal(t, "100", stored.Advance)
}

func TestCompanyReport_AcmeScenario(t *testing.T) {
	e := newTestServer(t, nil)
	rec := do(t, e, http.MethodPost, "/api/companies/add", map[string]interface{}{
		"name": "Acme",
		"records": []map[string]interface{}{{
			"date": "2024-01-15", "invoiceNo": "INV1", "containerNo": "C1", "product": "Copper", "advance": "100",
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	company := decode[models.Company](t, rec)

	rec = do(t, e, http.MethodGet, "/api/companies/"+company.ID+"/report?fromDate=2024-01-01&toDate=2024-01-15", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "attachment; filename=company_"+company.ID+"_records.pdf", rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = do(t, e, http.MethodGet, "/api/companies/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=all_companies_records.pdf", rec.Header().Get(echo.HeaderContentDisposition))
}

func TestReports_InvalidRange(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodGet, "/api/dashboard/generate-full-report?fromDate=2024-02-01&toDate=2024-01-01", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_RANGE", decode[common.ErrorResponse](t, rec).Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))
}

func TestReports_NoCompanies(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodGet, "/api/dashboard/generate-full-report", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No companies found", decode[common.ErrorResponse](t, rec).Message)
}

func TestDashboardRoutes(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodPost, "/api/dashboard/add-company", map[string]string{"name": "Beta"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/dashboard/add-company", map[string]string{"name": "Beta"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CONFLICT", decode[common.ErrorResponse](t, rec).Code)

	rec = do(t, e, http.MethodPost, "/api/dashboard/add-record", map[string]interface{}{
		"companyName": "Beta", "date": "2024-03-01", "amount": 1234.5, "description": "fuel",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/dashboard/by-name?name=Beta", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	beta := decode[models.DashboardCompany](t, rec)
	require.Len(t, beta.Records, 1)

	rec = do(t, e, http.MethodPut, "/api/dashboard/edit-record", map[string]interface{}{
		"companyName": "Beta", "recordId": beta.Records[0].ID, "amount": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/dashboard/generate-report/"+beta.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=company_"+beta.ID+"_details.pdf", rec.Header().Get(echo.HeaderContentDisposition))

	rec = do(t, e, http.MethodDelete, "/api/dashboard/delete-record", map[string]string{"companyName": "Beta", "recordId": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodDelete, "/api/dashboard/delete-company", map[string]string{"name": "Beta"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/dashboard/get-all-companies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.DashboardCompany](t, rec))
}

func TestDashboardArchive(t *testing.T) {
	archiver := &stubArchiver{}
	e := newTestServer(t, archiver)
	rec := do(t, e, http.MethodPost, "/api/dashboard/add-company", map[string]string{"name": "Beta"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/dashboard/generate-full-report/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]interface{}](t, rec)
	require.Len(t, archiver.archived, 1)
	first := archiver.archived[0]
	assert.True(t, strings.HasPrefix(first, "adhoc/open_open/"), first)
	assert.True(t, strings.HasSuffix(first, "/all_companies_report.pdf"), first)
	assert.Equal(t, "https://minio.local/"+first, body["pdf_url"])
	assert.Equal(t, float64(86400), body["expires_in"])

	rec = do(t, e, http.MethodPost, "/api/dashboard/generate-full-report/archive?fromDate=2024-01-01&toDate=2024-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, archiver.archived, 2)
	assert.True(t, strings.HasPrefix(archiver.archived[1], "adhoc/2024-01-01_2024-01-31/"), archiver.archived[1])
	assert.NotEqual(t, first, archiver.archived[1])

	rec = do(t, newTestServer(t, nil), http.MethodPost, "/api/dashboard/generate-full-report/archive", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestArchivePrefix(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 15, 250_000_000, time.FixedZone("IST", 5*3600+1800))
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, "adhoc/open_open/20240305T090015.250Z", archivePrefix(models.DateRange{}, now))
	assert.Equal(t, "adhoc/2024-01-01_2024-01-31/20240305T090015.250Z", archivePrefix(models.DateRange{From: &from, To: &to}, now))
	assert.Equal(t, "adhoc/2024-01-01_open/20240305T090015.250Z", archivePrefix(models.DateRange{From: &from}, now))
	assert.NotEqual(t, archivePrefix(models.DateRange{}, now), archivePrefix(models.DateRange{}, now.Add(time.Millisecond)))
}

func TestInventoryRoutes(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodPost, "/api/inventory/add-main-category", map[string]string{"type": "incoming", "name": "Metals"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/inventory/add-subcategory", map[string]interface{}{
		"type": "incoming", "categoryName": "Metals", "name": "Copper", "details": []string{"coil"}, "price": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodPut, "/api/inventory/edit-subcategory", map[string]interface{}{
		"type": "incoming", "categoryName": "Metals", "subcategoryName": "Copper", "price": 150,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	inv := decode[models.Inventory](t, rec)
	assert.Equal(t, 150.0, inv.Categories[0].Subcategories[0].Price)

	rec = do(t, e, http.MethodGet, "/api/inventory/categories?type=incoming", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Metals"}, decode[[]string](t, rec))

	rec = do(t, e, http.MethodGet, "/api/inventory?type=incoming", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Inventory](t, rec), 1)

	rec = do(t, e, http.MethodGet, "/api/pdf/incoming", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=incoming_report.pdf", rec.Header().Get(echo.HeaderContentDisposition))

	rec = do(t, e, http.MethodGet, "/api/pdf/outgoing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/inventory/delete-subcategory", map[string]string{
		"type": "incoming", "categoryName": "Metals", "subcategoryName": "Copper",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/inventory/delete-main-category", map[string]string{"type": "incoming", "name": "Metals"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/inventory/add-main-category", map[string]string{"type": "sideways", "name": "Metals"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserRoutes(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodPost, "/api/register", map[string]string{"username": "admin", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(t, e, http.MethodPost, "/api/users", map[string]interface{}{"username": "clerk", "password": "pw", "roles": []string{"Employee"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	clerk := decode[models.User](t, rec)

	rec = do(t, e, http.MethodPatch, "/api/users", map[string]interface{}{"id": clerk.ID, "active": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.User](t, rec).Active)

	rec = do(t, e, http.MethodGet, "/api/users/"+clerk.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 2)

	rec = do(t, e, http.MethodDelete, "/api/users", map[string]string{"id": clerk.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/users/"+clerk.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/register", map[string]string{"username": "root", "password": strings.Repeat("x", 80)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[common.ErrorResponse](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Contains(t, resp.Details, "password")
}

func TestHealthRoutes(t *testing.T) {
	e := newTestServer(t, nil)

	rec := do(t, e, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[HealthStatus](t, rec).Status)

	rec = do(t, e, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := NewHealthHandlers(func(context.Context) error { return errors.New("down") }, nil, "test")
	e2 := echo.New()
	e2.GET("/health/ready", failing.ReadinessCheck)
	rec = do(t, e2, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAmountText(t *testing.T) {
	var r RecordRequest
	require.NoError(t, json.Unmarshal([]byte(`{"advance": 1234.50}`), &r))
	assert.Equal(t, AmountText("1234.50"), r.Advance)

	require.NoError(t, json.Unmarshal([]byte(`{"advance": "1,000"}`), &r))
	assert.Equal(t, AmountText("1,000"), r.Advance)

	assert.Error(t, json.Unmarshal([]byte(`{"advance": true}`), &r))
}
