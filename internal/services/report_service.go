package services

import (
	"context"
	"fmt"
	"time"

	"acmeledger/internal/caching"
	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/reports"
	"acmeledger/internal/repositories"

	"github.com/rs/zerolog/log"
)

const DefaultReportCacheTTL = 10 * time.Minute

// Report is a rendered PDF ready to be sent or archived.
type Report struct {
	Filename string
	Content  []byte
	Pages    int
	Cached   bool
}

type ReportService interface {
	CompanyReport(ctx context.Context, companyID string, r models.DateRange) (*Report, error)
	AllCompaniesReport(ctx context.Context, r models.DateRange) (*Report, error)
	DashboardReport(ctx context.Context, companyID string, r models.DateRange) (*Report, error)
	AllDashboardsReport(ctx context.Context, r models.DateRange) (*Report, error)
	InventoryReport(ctx context.Context, invType string, r models.DateRange) (*Report, error)
}

// ReportConfig holds the collaborators of the report service. Cache and Metrics may be nil.
type ReportConfig struct {
	Store    repositories.Store
	Renderer *reports.Renderer
	Cache    caching.CacheService
	CacheTTL time.Duration
	Metrics  *reports.Metrics
	Now      func() time.Time
}

type reportService struct {
	companies   repositories.CompanyRepository
	dashboards  repositories.DashboardCompanyRepository
	inventories repositories.InventoryRepository
	renderer    *reports.Renderer
	cache       caching.CacheService
	ttl         time.Duration
	metrics     *reports.Metrics
	now         func() time.Time
}

func NewReportService(cfg ReportConfig) ReportService {
	s := &reportService{
		companies:   cfg.Store.Companies,
		dashboards:  cfg.Store.DashboardCompanies,
		inventories: cfg.Store.Inventories,
		renderer:    cfg.Renderer,
		cache:       cfg.Cache,
		ttl:         cfg.CacheTTL,
		metrics:     cfg.Metrics,
		now:         cfg.Now,
	}
	if s.renderer == nil {
		s.renderer = reports.NewRenderer(reports.DefaultStyle())
	}
	if s.cache == nil {
		s.cache = caching.NewNoopCacheService()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultReportCacheTTL
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

func (s *reportService) CompanyReport(ctx context.Context, companyID string, r models.DateRange) (*Report, error) {
	key := caching.ReportKey{Kind: models.ReportKindCompany, Entity: companyID, Range: r}
	return s.generate(ctx, key, fmt.Sprintf("company_%s_records.pdf", companyID), func(ctx context.Context) (reports.Document, error) {
		company, err := s.companies.GetByID(ctx, companyID)
		if err != nil {
			return reports.Document{}, err
		}
		return reports.BuildCompanyReport(company, r), nil
	})
}

func (s *reportService) AllCompaniesReport(ctx context.Context, r models.DateRange) (*Report, error) {
	key := caching.ReportKey{Kind: models.ReportKindCompany, Entity: "all", Range: r}
	return s.generate(ctx, key, "all_companies_records.pdf", func(ctx context.Context) (reports.Document, error) {
		companies, err := s.companies.List(ctx)
		if err != nil {
			return reports.Document{}, err
		}
		return reports.BuildCompaniesReport(companies, r)
	})
}

func (s *reportService) DashboardReport(ctx context.Context, companyID string, r models.DateRange) (*Report, error) {
	key := caching.ReportKey{Kind: models.ReportKindDashboard, Entity: companyID, Range: r}
	return s.generate(ctx, key, fmt.Sprintf("company_%s_details.pdf", companyID), func(ctx context.Context) (reports.Document, error) {
		company, err := s.dashboards.GetByID(ctx, companyID)
		if err != nil {
			return reports.Document{}, err
		}
		return reports.BuildDashboardReport(company, r), nil
	})
}

func (s *reportService) AllDashboardsReport(ctx context.Context, r models.DateRange) (*Report, error) {
	key := caching.ReportKey{Kind: models.ReportKindDashboard, Entity: "all", Range: r}
	return s.generate(ctx, key, "all_companies_report.pdf", func(ctx context.Context) (reports.Document, error) {
		companies, err := s.dashboards.List(ctx)
		if err != nil {
			return reports.Document{}, err
		}
		return reports.BuildDashboardsReport(companies, r)
	})
}

func (s *reportService) InventoryReport(ctx context.Context, invType string, r models.DateRange) (*Report, error) {
	t, err := ParseInventoryType(invType)
	if err != nil {
		return nil, err
	}
	key := caching.ReportKey{Kind: models.ReportKindInventory, Entity: string(t), Range: r}
	return s.generate(ctx, key, fmt.Sprintf("%s_report.pdf", t), func(ctx context.Context) (reports.Document, error) {
		inv, err := s.inventories.GetByType(ctx, t)
		if err != nil {
			return reports.Document{}, err
		}
		return reports.BuildInventoryReport(inv, r), nil
	})
}

// generate validates the range before any store access, serves the cache when it can and
// otherwise builds, renders and caches the report.
func (s *reportService) generate(ctx context.Context, key caching.ReportKey, filename string, build func(context.Context) (reports.Document, error)) (*Report, error) {
	kind := string(key.Kind)
	if err := common.ValidateDateRange(key.Range); err != nil {
		s.metrics.Observe(kind, reports.OutcomeFailed, 0, 0)
		return nil, err
	}

	data, ok, err := s.cache.GetReport(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("Failed to read cached report")
	}
	if ok {
		s.metrics.Observe(kind, reports.OutcomeCached, 0, 0)
		return &Report{Filename: filename, Content: data, Cached: true}, nil
	}

	start := time.Now()
	doc, err := build(ctx)
	if err != nil {
		s.metrics.Observe(kind, reports.OutcomeFailed, 0, 0)
		return nil, err
	}
	doc.GeneratedAt = s.now()

	out, err := s.renderer.Render(doc)
	if err != nil {
		s.metrics.Observe(kind, reports.OutcomeFailed, 0, 0)
		return nil, fmt.Errorf("render %s: %w", filename, err)
	}
	s.metrics.Observe(kind, reports.OutcomeRendered, out.Pages, time.Since(start))

	if err := s.cache.SetReport(ctx, key, out.Bytes, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("Failed to cache report")
	}

	log.Debug().
		Str("kind", kind).
		Str("entity", key.Entity).
		Int("pages", out.Pages).
		Int("records", doc.RecordCount()).
		Msg("Report rendered")

	return &Report{Filename: filename, Content: out.Bytes, Pages: out.Pages}, nil
}
