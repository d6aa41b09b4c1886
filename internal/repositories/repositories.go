package repositories

import (
	"context"

	"acmeledger/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories returned by this package and its backends report failures as
// *common.Error values: NotFound and Conflict carry the user-visible message,
// driver failures are wrapped with common.StoreError.

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
	ListNames(ctx context.Context) ([]models.CompanyName, error)
	Update(ctx context.Context, id string, patch models.CompanyPatch) (*models.Company, error)
	Delete(ctx context.Context, id string) error
	AddRecord(ctx context.Context, companyID string, record models.Record) (*models.Company, error)
	UpdateRecord(ctx context.Context, companyID, recordID string, patch models.RecordPatch) (*models.Company, error)
	DeleteRecord(ctx context.Context, companyID, recordID string) (*models.Company, error)
}

// DashboardCompanyRepository addresses dashboard companies by their unique name.
type DashboardCompanyRepository interface {
	Create(ctx context.Context, company *models.DashboardCompany) error
	GetByID(ctx context.Context, id string) (*models.DashboardCompany, error)
	GetByName(ctx context.Context, name string) (*models.DashboardCompany, error)
	List(ctx context.Context) ([]*models.DashboardCompany, error)
	DeleteByName(ctx context.Context, name string) error
	AddRecord(ctx context.Context, companyName string, record models.DashRecord) (*models.DashboardCompany, error)
	UpdateRecord(ctx context.Context, companyName, recordID string, patch models.DashRecordPatch) (*models.DashboardCompany, error)
	DeleteRecord(ctx context.Context, companyName, recordID string) (*models.DashboardCompany, error)
}

// InventoryRepository keeps one inventory document per type. AddCategory creates it on demand.
type InventoryRepository interface {
	GetByType(ctx context.Context, invType models.InventoryType) (*models.Inventory, error)
	List(ctx context.Context) ([]*models.Inventory, error)
	AddCategory(ctx context.Context, invType models.InventoryType, name string) (*models.Inventory, error)
	DeleteCategory(ctx context.Context, invType models.InventoryType, name string) (*models.Inventory, error)
	AddSubcategory(ctx context.Context, invType models.InventoryType, category string, sub models.Subcategory) (*models.Inventory, error)
	UpdateSubcategory(ctx context.Context, invType models.InventoryType, category, name string, patch models.SubcategoryPatch) (*models.Inventory, error)
	DeleteSubcategory(ctx context.Context, invType models.InventoryType, category, name string) (*models.Inventory, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Companies          CompanyRepository
	DashboardCompanies DashboardCompanyRepository
	Inventories        InventoryRepository
	Users              UserRepository
	// Ping checks backend connectivity for readiness probes.
	Ping func(ctx context.Context) error
	// Close releases backend resources.
	Close func()
}

// DB is the subset of *pgxpool.Pool the postgres repositories use. pgxmock pools satisfy it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewPostgresStore builds the postgres backend on pool. Close closes the pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return Store{
		Companies:          NewCompanyRepo(pool),
		DashboardCompanies: NewDashboardCompanyRepo(pool),
		Inventories:        NewInventoryRepo(pool),
		Users:              NewUserRepo(pool),
		Ping:               pool.Ping,
		Close:              pool.Close,
	}
}
