package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const (
	insertDashboardCompanySQL = `INSERT INTO dashboard_companies (id, name, records) VALUES ($1, $2, $3::jsonb)`
	selectDashboardCompanySQL = `SELECT id, name, records FROM dashboard_companies WHERE id = $1`
	selectDashboardByNameSQL  = `SELECT id, name, records FROM dashboard_companies WHERE name = $1`
	selectDashboardRecordSQL  = `
		SELECT id, name, records FROM dashboard_companies
		WHERE name = $1 AND records @> jsonb_build_array(jsonb_build_object('id', $2::text))`
	listDashboardCompaniesSQL = `SELECT id, name, records FROM dashboard_companies ORDER BY name ASC`
	dashboardCompanyExistsSQL = `SELECT EXISTS (SELECT 1 FROM dashboard_companies WHERE name = $1)`
	deleteDashboardCompanySQL = `DELETE FROM dashboard_companies WHERE name = $1`

	appendDashboardRecordSQL = `
		UPDATE dashboard_companies
		SET records = records || jsonb_build_array($2::jsonb)
		WHERE name = $1
		RETURNING id, name, records`

	patchDashboardRecordSQL = `
		UPDATE dashboard_companies
		SET records = (
			SELECT jsonb_agg(CASE WHEN r.elem->>'id' = $2 THEN r.elem || $3::jsonb ELSE r.elem END ORDER BY r.pos)
			FROM jsonb_array_elements(records) WITH ORDINALITY AS r(elem, pos)
		)
		WHERE name = $1 AND records @> jsonb_build_array(jsonb_build_object('id', $2::text))
		RETURNING id, name, records`

	pullDashboardRecordSQL = `
		UPDATE dashboard_companies
		SET records = COALESCE((
			SELECT jsonb_agg(r.elem ORDER BY r.pos)
			FROM jsonb_array_elements(records) WITH ORDINALITY AS r(elem, pos)
			WHERE r.elem->>'id' <> $2
		), '[]'::jsonb)
		WHERE name = $1 AND records @> jsonb_build_array(jsonb_build_object('id', $2::text))
		RETURNING id, name, records`
)

type dashboardCompanyRepo struct {
	db DB
}

func NewDashboardCompanyRepo(db DB) DashboardCompanyRepository {
	return &dashboardCompanyRepo{db: db}
}

func (r *dashboardCompanyRepo) Create(ctx context.Context, company *models.DashboardCompany) error {
	if company.Records == nil {
		company.Records = []models.DashRecord{}
	}
	records, err := json.Marshal(company.Records)
	if err != nil {
		return common.StoreError("encode dashboard records", err)
	}
	_, err = r.db.Exec(ctx, insertDashboardCompanySQL, company.ID, company.Name, string(records))
	if isUniqueViolation(err) {
		return common.Conflict("Company with this name already exists")
	}
	return common.StoreError("create dashboard company", err)
}

func (r *dashboardCompanyRepo) GetByID(ctx context.Context, id string) (*models.DashboardCompany, error) {
	return r.getOne(ctx, selectDashboardCompanySQL, id)
}

func (r *dashboardCompanyRepo) GetByName(ctx context.Context, name string) (*models.DashboardCompany, error) {
	return r.getOne(ctx, selectDashboardByNameSQL, name)
}

func (r *dashboardCompanyRepo) getOne(ctx context.Context, query, key string) (*models.DashboardCompany, error) {
	company, err := scanDashboardCompany(r.db.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("load dashboard company", err)
	}
	return company, nil
}

func (r *dashboardCompanyRepo) List(ctx context.Context) ([]*models.DashboardCompany, error) {
	rows, err := r.db.Query(ctx, listDashboardCompaniesSQL)
	if err != nil {
		return nil, common.StoreError("list dashboard companies", err)
	}
	defer rows.Close()

	companies := []*models.DashboardCompany{}
	for rows.Next() {
		company, err := scanDashboardCompany(rows)
		if err != nil {
			return nil, common.StoreError("scan dashboard company", err)
		}
		companies = append(companies, company)
	}
	return companies, common.StoreError("list dashboard companies", rows.Err())
}

func (r *dashboardCompanyRepo) DeleteByName(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, deleteDashboardCompanySQL, name)
	if err != nil {
		return common.StoreError("delete dashboard company", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Company not found")
	}
	return nil
}

func (r *dashboardCompanyRepo) AddRecord(ctx context.Context, companyName string, record models.DashRecord) (*models.DashboardCompany, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, common.StoreError("encode dashboard record", err)
	}
	company, err := scanDashboardCompany(r.db.QueryRow(ctx, appendDashboardRecordSQL, companyName, string(raw)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("add dashboard record", err)
	}
	return company, nil
}

func (r *dashboardCompanyRepo) UpdateRecord(ctx context.Context, companyName, recordID string, patch models.DashRecordPatch) (*models.DashboardCompany, error) {
	query, args := selectDashboardRecordSQL, []any{companyName, recordID}
	if !patch.IsEmpty() {
		raw, err := json.Marshal(patch)
		if err != nil {
			return nil, common.StoreError("encode dashboard record patch", err)
		}
		query, args = patchDashboardRecordSQL, append(args, string(raw))
	}
	company, err := scanDashboardCompany(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missing(ctx, companyName)
	}
	if err != nil {
		return nil, common.StoreError("edit dashboard record", err)
	}
	return company, nil
}

func (r *dashboardCompanyRepo) DeleteRecord(ctx context.Context, companyName, recordID string) (*models.DashboardCompany, error) {
	company, err := scanDashboardCompany(r.db.QueryRow(ctx, pullDashboardRecordSQL, companyName, recordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missing(ctx, companyName)
	}
	if err != nil {
		return nil, common.StoreError("delete dashboard record", err)
	}
	return company, nil
}

func (r *dashboardCompanyRepo) missing(ctx context.Context, companyName string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, dashboardCompanyExistsSQL, companyName).Scan(&exists); err != nil {
		return common.StoreError("check dashboard company", err)
	}
	if !exists {
		return common.NotFound("Company not found")
	}
	return common.NotFound("Record not found")
}

func scanDashboardCompany(row pgx.Row) (*models.DashboardCompany, error) {
	var (
		company models.DashboardCompany
		raw     []byte
	)
	if err := row.Scan(&company.ID, &company.Name, &raw); err != nil {
		return nil, err
	}
	if err := decodeJSONArray(raw, &company.Records); err != nil {
		return nil, err
	}
	if company.Records == nil {
		company.Records = []models.DashRecord{}
	}
	return &company, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
