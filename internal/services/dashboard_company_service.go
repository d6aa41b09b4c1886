package services

import (
	"context"
	"strings"
	"time"

	"acmeledger/internal/caching"
	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories"

	"github.com/google/uuid"
)

// NewDashRecord is the input of AddRecord. Amount is a pointer so a missing
// amount can be told apart from zero.
type NewDashRecord struct {
	Date        *time.Time
	Amount      *float64
	Description string
}

type DashboardCompanyService interface {
	Create(ctx context.Context, name string) (*models.DashboardCompany, error)
	GetByID(ctx context.Context, id string) (*models.DashboardCompany, error)
	GetByName(ctx context.Context, name string) (*models.DashboardCompany, error)
	List(ctx context.Context) ([]*models.DashboardCompany, error)
	DeleteByName(ctx context.Context, name string) error
	AddRecord(ctx context.Context, companyName string, input NewDashRecord) (*models.DashboardCompany, error)
	EditRecord(ctx context.Context, companyName, recordID string, patch models.DashRecordPatch) (*models.DashboardCompany, error)
	DeleteRecord(ctx context.Context, companyName, recordID string) (*models.DashboardCompany, error)
}

type dashboardCompanyService struct {
	repo         repositories.DashboardCompanyRepository
	cacheService caching.CacheService
	now          func() time.Time
}

func NewDashboardCompanyService(repo repositories.DashboardCompanyRepository, cacheService caching.CacheService) DashboardCompanyService {
	return &dashboardCompanyService{
		repo:         repo,
		cacheService: cacheService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardCompanyService) Create(ctx context.Context, name string) (*models.DashboardCompany, error) {
	name = strings.TrimSpace(name)
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}

	company := &models.DashboardCompany{
		ID:      uuid.NewString(),
		Name:    name,
		Records: []models.DashRecord{},
	}
	// Name uniqueness is enforced by the repository.
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindDashboard)
	return company, nil
}

func (s *dashboardCompanyService) GetByID(ctx context.Context, id string) (*models.DashboardCompany, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *dashboardCompanyService) GetByName(ctx context.Context, name string) (*models.DashboardCompany, error) {
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	return s.repo.GetByName(ctx, name)
}

func (s *dashboardCompanyService) List(ctx context.Context) ([]*models.DashboardCompany, error) {
	return s.repo.List(ctx)
}

func (s *dashboardCompanyService) DeleteByName(ctx context.Context, name string) error {
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return err
	}
	if err := s.repo.DeleteByName(ctx, name); err != nil {
		return err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindDashboard)
	return nil
}

func (s *dashboardCompanyService) AddRecord(ctx context.Context, companyName string, input NewDashRecord) (*models.DashboardCompany, error) {
	if err := common.ValidateRequiredString(companyName, "companyName"); err != nil {
		return nil, err
	}
	if input.Amount == nil {
		return nil, common.Validation("amount", "amount is required")
	}
	if err := common.ValidateRequiredString(input.Description, "description"); err != nil {
		return nil, err
	}

	record := models.DashRecord{
		ID:          uuid.NewString(),
		Date:        s.now(),
		Amount:      *input.Amount,
		Description: input.Description,
	}
	if input.Date != nil {
		record.Date = input.Date.UTC()
	}

	company, err := s.repo.AddRecord(ctx, companyName, record)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindDashboard)
	return company, nil
}

func (s *dashboardCompanyService) EditRecord(ctx context.Context, companyName, recordID string, patch models.DashRecordPatch) (*models.DashboardCompany, error) {
	if err := common.ValidateRequiredString(companyName, "companyName"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(recordID, "recordId"); err != nil {
		return nil, err
	}
	// An empty description keeps the stored one.
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		patch.Description = nil
	}

	company, err := s.repo.UpdateRecord(ctx, companyName, recordID, patch)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindDashboard)
	return company, nil
}

func (s *dashboardCompanyService) DeleteRecord(ctx context.Context, companyName, recordID string) (*models.DashboardCompany, error) {
	if err := common.ValidateRequiredString(companyName, "companyName"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(recordID, "recordId"); err != nil {
		return nil, err
	}
	company, err := s.repo.DeleteRecord(ctx, companyName, recordID)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindDashboard)
	return company, nil
}
