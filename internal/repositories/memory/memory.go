package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories"

	"github.com/google/uuid"
)

// Store keeps every document kind in process memory. Documents are deep-copied
// on the way in and out so callers never share state with the store.
type Store struct {
	mu                 sync.RWMutex
	companies          map[string]models.Company
	dashboardCompanies map[string]models.DashboardCompany
	dashboardByName    map[string]string
	inventories        map[models.InventoryType]models.Inventory
	users              map[string]models.User
}

func New() *Store {
	return &Store{
		companies:          map[string]models.Company{},
		dashboardCompanies: map[string]models.DashboardCompany{},
		dashboardByName:    map[string]string{},
		inventories:        map[models.InventoryType]models.Inventory{},
		users:              map[string]models.User{},
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repositories.Store {
	return repositories.Store{
		Companies:          &companyRepo{s: s},
		DashboardCompanies: &dashboardRepo{s: s},
		Inventories:        &inventoryRepo{s: s},
		Users:              &userRepo{s: s},
		Ping:               func(context.Context) error { return nil },
		Close:              func() {},
	}
}

func copyCompany(c models.Company) *models.Company {
	c.Records = slices.Clone(c.Records)
	if c.Records == nil {
		c.Records = []models.Record{}
	}
	return &c
}

func copyDashboard(c models.DashboardCompany) *models.DashboardCompany {
	c.Records = slices.Clone(c.Records)
	if c.Records == nil {
		c.Records = []models.DashRecord{}
	}
	return &c
}

func copyInventory(inv models.Inventory) *models.Inventory {
	cats := make([]models.Category, len(inv.Categories))
	for i, c := range inv.Categories {
		subs := make([]models.Subcategory, len(c.Subcategories))
		for j, sub := range c.Subcategories {
			sub.Details = slices.Clone(sub.Details)
			subs[j] = sub
		}
		cats[i] = models.Category{Name: c.Name, Subcategories: subs}
	}
	inv.Categories = cats
	return &inv
}

func copyUser(u models.User) *models.User {
	u.Roles = slices.Clone(u.Roles)
	if u.Roles == nil {
		u.Roles = []string{}
	}
	return &u
}

type companyRepo struct{ s *Store }

func (r *companyRepo) Create(_ context.Context, company *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if company.Records == nil {
		company.Records = []models.Record{}
	}
	r.s.companies[company.ID] = *copyCompany(*company)
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*models.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	return copyCompany(c), nil
}

func (r *companyRepo) List(_ context.Context) ([]*models.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, copyCompany(c))
	}
	slices.SortFunc(out, func(a, b *models.Company) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *companyRepo) ListNames(ctx context.Context) ([]models.CompanyName, error) {
	companies, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]models.CompanyName, 0, len(companies))
	for _, c := range companies {
		names = append(names, models.CompanyName{ID: c.ID, Name: c.Name})
	}
	return names, nil
}

func (r *companyRepo) Update(_ context.Context, id string, patch models.CompanyPatch) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Records != nil {
		c.Records = slices.Clone(*patch.Records)
	}
	r.s.companies[id] = *copyCompany(c)
	return copyCompany(c), nil
}

func (r *companyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[id]; !ok {
		return common.NotFound("Company not found")
	}
	delete(r.s.companies, id)
	return nil
}

func (r *companyRepo) AddRecord(_ context.Context, companyID string, record models.Record) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[companyID]
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	updated := copyCompany(c)
	updated.Records = append(updated.Records, record)
	r.s.companies[companyID] = *updated
	return copyCompany(*updated), nil
}

func (r *companyRepo) UpdateRecord(_ context.Context, companyID, recordID string, patch models.RecordPatch) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[companyID]
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	updated := copyCompany(c)
	i := updated.FindRecord(recordID)
	if i < 0 {
		return nil, common.NotFound("Record not found")
	}
	patch.Apply(&updated.Records[i])
	r.s.companies[companyID] = *updated
	return copyCompany(*updated), nil
}

func (r *companyRepo) DeleteRecord(_ context.Context, companyID, recordID string) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[companyID]
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	updated := copyCompany(c)
	i := updated.FindRecord(recordID)
	if i < 0 {
		return nil, common.NotFound("Record not found")
	}
	updated.Records = slices.Delete(updated.Records, i, i+1)
	r.s.companies[companyID] = *updated
	return copyCompany(*updated), nil
}

type dashboardRepo struct{ s *Store }

func (r *dashboardRepo) Create(_ context.Context, company *models.DashboardCompany) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.dashboardByName[company.Name]; exists {
		return common.Conflict("Company with this name already exists")
	}
	if company.Records == nil {
		company.Records = []models.DashRecord{}
	}
	r.s.dashboardCompanies[company.ID] = *copyDashboard(*company)
	r.s.dashboardByName[company.Name] = company.ID
	return nil
}

func (r *dashboardRepo) GetByID(_ context.Context, id string) (*models.DashboardCompany, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.dashboardCompanies[id]
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	return copyDashboard(c), nil
}

func (r *dashboardRepo) GetByName(_ context.Context, name string) (*models.DashboardCompany, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.byName(name)
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	return copyDashboard(c), nil
}

// byName must be called with the lock held.
func (r *dashboardRepo) byName(name string) (models.DashboardCompany, bool) {
	id, ok := r.s.dashboardByName[name]
	if !ok {
		return models.DashboardCompany{}, false
	}
	c, ok := r.s.dashboardCompanies[id]
	return c, ok
}

func (r *dashboardRepo) List(_ context.Context) ([]*models.DashboardCompany, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.DashboardCompany, 0, len(r.s.dashboardCompanies))
	for _, c := range r.s.dashboardCompanies {
		out = append(out, copyDashboard(c))
	}
	slices.SortFunc(out, func(a, b *models.DashboardCompany) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *dashboardRepo) DeleteByName(_ context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.dashboardByName[name]
	if !ok {
		return common.NotFound("Company not found")
	}
	delete(r.s.dashboardCompanies, id)
	delete(r.s.dashboardByName, name)
	return nil
}

func (r *dashboardRepo) AddRecord(_ context.Context, companyName string, record models.DashRecord) (*models.DashboardCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.byName(companyName)
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	updated := copyDashboard(c)
	updated.Records = append(updated.Records, record)
	r.s.dashboardCompanies[updated.ID] = *updated
	return copyDashboard(*updated), nil
}

func (r *dashboardRepo) UpdateRecord(_ context.Context, companyName, recordID string, patch models.DashRecordPatch) (*models.DashboardCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.byName(companyName)
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	updated := copyDashboard(c)
	i := updated.FindRecord(recordID)
	if i < 0 {
		return nil, common.NotFound("Record not found")
	}
	patch.Apply(&updated.Records[i])
	r.s.dashboardCompanies[updated.ID] = *updated
	return copyDashboard(*updated), nil
}

func (r *dashboardRepo) DeleteRecord(_ context.Context, companyName, recordID string) (*models.DashboardCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.byName(companyName)
	if !ok {
		return nil, common.NotFound("Company not found")
	}
	updated := copyDashboard(c)
	i := updated.FindRecord(recordID)
	if i < 0 {
		return nil, common.NotFound("Record not found")
	}
	updated.Records = slices.Delete(updated.Records, i, i+1)
	r.s.dashboardCompanies[updated.ID] = *updated
	return copyDashboard(*updated), nil
}

type inventoryRepo struct{ s *Store }

func (r *inventoryRepo) GetByType(_ context.Context, invType models.InventoryType) (*models.Inventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.inventories[invType]
	if !ok {
		return nil, common.NotFound("Inventory not found")
	}
	return copyInventory(inv), nil
}

func (r *inventoryRepo) List(_ context.Context) ([]*models.Inventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Inventory, 0, len(r.s.inventories))
	for _, inv := range r.s.inventories {
		out = append(out, copyInventory(inv))
	}
	slices.SortFunc(out, func(a, b *models.Inventory) int { return strings.Compare(string(a.Type), string(b.Type)) })
	return out, nil
}

func (r *inventoryRepo) AddCategory(_ context.Context, invType models.InventoryType, name string) (*models.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.inventories[invType]
	if !ok {
		inv = models.Inventory{ID: uuid.NewString(), Type: invType, Categories: []models.Category{}, Date: time.Now().UTC()}
	}
	return r.apply(inv, func(w *models.Inventory) error { return repositories.AddCategoryTo(w, name) })
}

func (r *inventoryRepo) DeleteCategory(_ context.Context, invType models.InventoryType, name string) (*models.Inventory, error) {
	return r.mutateExisting(invType, func(w *models.Inventory) error { return repositories.RemoveCategoryFrom(w, name) })
}

func (r *inventoryRepo) AddSubcategory(_ context.Context, invType models.InventoryType, category string, sub models.Subcategory) (*models.Inventory, error) {
	return r.mutateExisting(invType, func(w *models.Inventory) error { return repositories.AddSubcategoryTo(w, category, sub) })
}

func (r *inventoryRepo) UpdateSubcategory(_ context.Context, invType models.InventoryType, category, name string, patch models.SubcategoryPatch) (*models.Inventory, error) {
	return r.mutateExisting(invType, func(w *models.Inventory) error {
		return repositories.PatchSubcategoryIn(w, category, name, patch)
	})
}

func (r *inventoryRepo) DeleteSubcategory(_ context.Context, invType models.InventoryType, category, name string) (*models.Inventory, error) {
	return r.mutateExisting(invType, func(w *models.Inventory) error {
		return repositories.RemoveSubcategoryFrom(w, category, name)
	})
}

func (r *inventoryRepo) mutateExisting(invType models.InventoryType, fn func(*models.Inventory) error) (*models.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.inventories[invType]
	if !ok {
		return nil, common.NotFound("Inventory not found")
	}
	return r.apply(inv, fn)
}

// apply runs fn on a private copy and stores it only on success. Callers hold the write lock.
func (r *inventoryRepo) apply(inv models.Inventory, fn func(*models.Inventory) error) (*models.Inventory, error) {
	work := copyInventory(inv)
	if err := fn(work); err != nil {
		return nil, err
	}
	r.s.inventories[work.Type] = *copyInventory(*work)
	return work, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.usernameTaken(user.Username, "") {
		return common.Conflict("User already exists")
	}
	r.s.users[user.ID] = *copyUser(*user)
	return nil
}

// usernameTaken must be called with the lock held.
func (r *userRepo) usernameTaken(username, exceptID string) bool {
	for id, u := range r.s.users {
		if u.Username == username && id != exceptID {
			return true
		}
	}
	return false
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.NotFound("User not found")
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, common.NotFound("User not found")
}

func (r *userRepo) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, copyUser(u))
	}
	slices.SortFunc(out, func(a, b *models.User) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *userRepo) Update(_ context.Context, id string, patch models.UserPatch) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.NotFound("User not found")
	}
	if patch.Username != nil && r.usernameTaken(*patch.Username, id) {
		return nil, common.Conflict("User already exists")
	}
	patch.Apply(&u)
	r.s.users[id] = *copyUser(u)
	return copyUser(u), nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return common.NotFound("User not found")
	}
	delete(r.s.users, id)
	return nil
}
