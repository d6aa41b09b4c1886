package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"acmeledger/internal/caching"
	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories"

	"github.com/google/uuid"
)

type CompanyService interface {
	Create(ctx context.Context, name string, records []models.Record) (*models.Company, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
	ListNames(ctx context.Context) ([]models.CompanyName, error)
	Update(ctx context.Context, id string, patch models.CompanyPatch) (*models.Company, error)
	Delete(ctx context.Context, id string) error
	AddRecord(ctx context.Context, companyID string, record models.Record) (*models.Company, error)
	UpdateRecord(ctx context.Context, companyID, recordID string, patch models.RecordPatch) (*models.Company, error)
	DeleteRecord(ctx context.Context, companyID, recordID string) (*models.Company, error)
}

type companyService struct {
	companyRepo  repositories.CompanyRepository
	cacheService caching.CacheService
	now          func() time.Time
}

func NewCompanyService(companyRepo repositories.CompanyRepository, cacheService caching.CacheService) CompanyService {
	return &companyService{
		companyRepo:  companyRepo,
		cacheService: cacheService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// prepareRecord checks the required fields and fills in the id and date when absent.
func (s *companyService) prepareRecord(r *models.Record, field string) error {
	required := []struct {
		name  string
		value string
	}{
		{"invoiceNo", r.InvoiceNo},
		{"containerNo", r.ContainerNo},
		{"product", r.Product},
		{"advance", r.Advance},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return common.Validation(field+f.name, fmt.Sprintf("%s is required", f.name))
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Date.IsZero() {
		r.Date = s.now()
	}
	return nil
}

func (s *companyService) prepareRecords(records []models.Record) ([]models.Record, error) {
	out := make([]models.Record, len(records))
	for i := range records {
		out[i] = records[i]
		if err := s.prepareRecord(&out[i], fmt.Sprintf("records[%d].", i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *companyService) Create(ctx context.Context, name string, records []models.Record) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}
	prepared, err := s.prepareRecords(records)
	if err != nil {
		return nil, err
	}

	company := &models.Company{
		ID:      uuid.NewString(),
		Name:    name,
		Records: prepared,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindCompany)
	return company, nil
}

func (s *companyService) Get(ctx context.Context, id string) (*models.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

func (s *companyService) List(ctx context.Context) ([]*models.Company, error) {
	return s.companyRepo.List(ctx)
}

func (s *companyService) ListNames(ctx context.Context) ([]models.CompanyName, error) {
	return s.companyRepo.ListNames(ctx)
}

func (s *companyService) Update(ctx context.Context, id string, patch models.CompanyPatch) (*models.Company, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := common.ValidateRequiredString(name, "name"); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Records != nil {
		prepared, err := s.prepareRecords(*patch.Records)
		if err != nil {
			return nil, err
		}
		patch.Records = &prepared
	}

	company, err := s.companyRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindCompany)
	return company, nil
}

func (s *companyService) Delete(ctx context.Context, id string) error {
	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindCompany)
	return nil
}

func (s *companyService) AddRecord(ctx context.Context, companyID string, record models.Record) (*models.Company, error) {
	record.ID = ""
	if err := s.prepareRecord(&record, ""); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.AddRecord(ctx, companyID, record)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindCompany)
	return company, nil
}

// trimRecordPatch trims the present fields of patch and rejects blank ones.
func trimRecordPatch(patch models.RecordPatch) (models.RecordPatch, error) {
	fields := []struct {
		name  string
		value **string
	}{
		{"invoiceNo", &patch.InvoiceNo},
		{"containerNo", &patch.ContainerNo},
		{"product", &patch.Product},
		{"advance", &patch.Advance},
	}
	for _, f := range fields {
		if *f.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(**f.value)
		if trimmed == "" {
			return patch, common.Validation(f.name, fmt.Sprintf("%s is required", f.name))
		}
		*f.value = &trimmed
	}
	return patch, nil
}

func (s *companyService) UpdateRecord(ctx context.Context, companyID, recordID string, patch models.RecordPatch) (*models.Company, error) {
	patch, err := trimRecordPatch(patch)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.UpdateRecord(ctx, companyID, recordID, patch)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindCompany)
	return company, nil
}

func (s *companyService) DeleteRecord(ctx context.Context, companyID, recordID string) (*models.Company, error) {
	company, err := s.companyRepo.DeleteRecord(ctx, companyID, recordID)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cacheService, models.ReportKindCompany)
	return company, nil
}
