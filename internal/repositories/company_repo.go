package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"github.com/jackc/pgx/v5"
)

const (
	insertCompanySQL       = `INSERT INTO companies (id, name, records) VALUES ($1, $2, $3::jsonb)`
	selectCompanySQL       = `SELECT id, name, records FROM companies WHERE id = $1`
	selectCompanyRecordSQL = `
		SELECT id, name, records FROM companies
		WHERE id = $1 AND records @> jsonb_build_array(jsonb_build_object('id', $2::text))`
	listCompaniesSQL    = `SELECT id, name, records FROM companies ORDER BY name ASC, id ASC`
	listCompanyNamesSQL = `SELECT id, name FROM companies ORDER BY name ASC, id ASC`
	companyExistsSQL    = `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`
	deleteCompanySQL    = `DELETE FROM companies WHERE id = $1`

	updateCompanySQL = `
		UPDATE companies
		SET name = COALESCE($2, name), records = COALESCE($3::jsonb, records)
		WHERE id = $1
		RETURNING id, name, records`

	appendCompanyRecordSQL = `
		UPDATE companies
		SET records = records || jsonb_build_array($2::jsonb)
		WHERE id = $1
		RETURNING id, name, records`

	patchCompanyRecordSQL = `
		UPDATE companies
		SET records = (
			SELECT jsonb_agg(CASE WHEN r.elem->>'id' = $2 THEN r.elem || $3::jsonb ELSE r.elem END ORDER BY r.pos)
			FROM jsonb_array_elements(records) WITH ORDINALITY AS r(elem, pos)
		)
		WHERE id = $1 AND records @> jsonb_build_array(jsonb_build_object('id', $2::text))
		RETURNING id, name, records`

	pullCompanyRecordSQL = `
		UPDATE companies
		SET records = COALESCE((
			SELECT jsonb_agg(r.elem ORDER BY r.pos)
			FROM jsonb_array_elements(records) WITH ORDINALITY AS r(elem, pos)
			WHERE r.elem->>'id' <> $2
		), '[]'::jsonb)
		WHERE id = $1 AND records @> jsonb_build_array(jsonb_build_object('id', $2::text))
		RETURNING id, name, records`
)

type companyRepo struct {
	db DB
}

func NewCompanyRepo(db DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	if company.Records == nil {
		company.Records = []models.Record{}
	}
	records, err := json.Marshal(company.Records)
	if err != nil {
		return common.StoreError("encode company records", err)
	}
	_, err = r.db.Exec(ctx, insertCompanySQL, company.ID, company.Name, string(records))
	return common.StoreError("create company", err)
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, selectCompanySQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("load company", err)
	}
	return company, nil
}

func (r *companyRepo) List(ctx context.Context) ([]*models.Company, error) {
	rows, err := r.db.Query(ctx, listCompaniesSQL)
	if err != nil {
		return nil, common.StoreError("list companies", err)
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, common.StoreError("scan company", err)
		}
		companies = append(companies, company)
	}
	return companies, common.StoreError("list companies", rows.Err())
}

func (r *companyRepo) ListNames(ctx context.Context) ([]models.CompanyName, error) {
	rows, err := r.db.Query(ctx, listCompanyNamesSQL)
	if err != nil {
		return nil, common.StoreError("list company names", err)
	}
	defer rows.Close()

	names := []models.CompanyName{}
	for rows.Next() {
		var n models.CompanyName
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, common.StoreError("scan company name", err)
		}
		names = append(names, n)
	}
	return names, common.StoreError("list company names", rows.Err())
}

func (r *companyRepo) Update(ctx context.Context, id string, patch models.CompanyPatch) (*models.Company, error) {
	var records *string
	if patch.Records != nil {
		raw, err := json.Marshal(*patch.Records)
		if err != nil {
			return nil, common.StoreError("encode company records", err)
		}
		s := string(raw)
		records = &s
	}

	company, err := scanCompany(r.db.QueryRow(ctx, updateCompanySQL, id, patch.Name, records))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("update company", err)
	}
	return company, nil
}

func (r *companyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deleteCompanySQL, id)
	if err != nil {
		return common.StoreError("delete company", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Company not found")
	}
	return nil
}

func (r *companyRepo) AddRecord(ctx context.Context, companyID string, record models.Record) (*models.Company, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, common.StoreError("encode record", err)
	}
	company, err := scanCompany(r.db.QueryRow(ctx, appendCompanyRecordSQL, companyID, string(raw)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("add record", err)
	}
	return company, nil
}

func (r *companyRepo) UpdateRecord(ctx context.Context, companyID, recordID string, patch models.RecordPatch) (*models.Company, error) {
	query, args := selectCompanyRecordSQL, []any{companyID, recordID}
	if !patch.IsEmpty() {
		raw, err := json.Marshal(patch)
		if err != nil {
			return nil, common.StoreError("encode record patch", err)
		}
		query, args = patchCompanyRecordSQL, append(args, string(raw))
	}
	company, err := scanCompany(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missing(ctx, companyID)
	}
	if err != nil {
		return nil, common.StoreError("update record", err)
	}
	return company, nil
}

func (r *companyRepo) DeleteRecord(ctx context.Context, companyID, recordID string) (*models.Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, pullCompanyRecordSQL, companyID, recordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missing(ctx, companyID)
	}
	if err != nil {
		return nil, common.StoreError("delete record", err)
	}
	return company, nil
}

// missing tells an absent company apart from an absent record after a guarded update matched nothing.
func (r *companyRepo) missing(ctx context.Context, companyID string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, companyExistsSQL, companyID).Scan(&exists); err != nil {
		return common.StoreError("check company", err)
	}
	if !exists {
		return common.NotFound("Company not found")
	}
	return common.NotFound("Record not found")
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var (
		company models.Company
		raw     []byte
	)
	if err := row.Scan(&company.ID, &company.Name, &raw); err != nil {
		return nil, err
	}
	if err := decodeJSONArray(raw, &company.Records); err != nil {
		return nil, err
	}
	if company.Records == nil {
		company.Records = []models.Record{}
	}
	return &company, nil
}

func decodeJSONArray(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
