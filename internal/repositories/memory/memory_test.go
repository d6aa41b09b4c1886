package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRecords_ConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.Companies.Create(ctx, &models.Company{ID: "c1", Name: "Acme"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repos.Companies.AddRecord(ctx, "c1", models.Record{ID: fmt.Sprintf("r%d", i), InvoiceNo: "INV"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	company, err := repos.Companies.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, company.Records, 50)
}

func TestCompanyRecords_ReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.Companies.Create(ctx, &models.Company{ID: "c1", Name: "Acme"}))
	company, err := repos.Companies.AddRecord(ctx, "c1", models.Record{ID: "r1", InvoiceNo: "INV1"})
	require.NoError(t, err)

	company.Records[0].InvoiceNo = "mutated"

	stored, err := repos.Companies.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "INV1", stored.Records[0].InvoiceNo)
}

func TestCompanyRecords_DeleteUnknownLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.Companies.Create(ctx, &models.Company{ID: "c1", Name: "Acme", Records: []models.Record{{ID: "r1"}}}))

	_, err := repos.Companies.DeleteRecord(ctx, "c1", "ghost")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	company, err := repos.Companies.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, company.Records, 1)
}

func TestDashboard_UniqueNames(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.DashboardCompanies.Create(ctx, &models.DashboardCompany{ID: "d1", Name: "Beta"}))

	err := repos.DashboardCompanies.Create(ctx, &models.DashboardCompany{ID: "d2", Name: "Beta"})
	assert.True(t, errors.Is(err, common.ErrConflict))

	require.NoError(t, repos.DashboardCompanies.DeleteByName(ctx, "Beta"))
	require.NoError(t, repos.DashboardCompanies.Create(ctx, &models.DashboardCompany{ID: "d3", Name: "Beta"}))
}

func TestInventory_FailedMutationIsNotStored(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	_, err := repos.Inventories.AddCategory(ctx, models.InventoryIncoming, "Spices")
	require.NoError(t, err)
	_, err = repos.Inventories.AddSubcategory(ctx, models.InventoryIncoming, "Spices", models.Subcategory{Name: "Pepper", Price: 10})
	require.NoError(t, err)

	_, err = repos.Inventories.AddSubcategory(ctx, models.InventoryIncoming, "Spices", models.Subcategory{Name: "Pepper", Price: 99})
	assert.True(t, errors.Is(err, common.ErrConflict))

	inv, err := repos.Inventories.GetByType(ctx, models.InventoryIncoming)
	require.NoError(t, err)
	require.Len(t, inv.Categories[0].Subcategories, 1)
	assert.Equal(t, 10.0, inv.Categories[0].Subcategories[0].Price)

	_, err = repos.Inventories.DeleteCategory(ctx, models.InventoryOutgoing, "Spices")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestUsers_RenameOntoTakenUsername(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "u1", Username: "alice"}))
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "u2", Username: "bob"}))

	name := "alice"
	_, err := repos.Users.Update(ctx, "u2", models.UserPatch{Username: &name})
	assert.True(t, errors.Is(err, common.ErrConflict))
}
