package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"acmeledger/internal/caching"
	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardService() DashboardCompanyService {
	return NewDashboardCompanyService(memory.New().Repositories().DashboardCompanies, caching.NewNoopCacheService())
}

func amount(v float64) *float64 { return &v }

func TestDashboardCompanyService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newDashboardService()

	_, err := svc.Create(ctx, "Beta")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Beta")
	assert.True(t, errors.Is(err, common.ErrConflict))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDashboardCompanyService_AddRecordValidation(t *testing.T) {
	ctx := context.Background()
	svc := newDashboardService()
	_, err := svc.Create(ctx, "Beta")
	require.NoError(t, err)

	_, err = svc.AddRecord(ctx, "Beta", NewDashRecord{Description: "fuel"})
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.AddRecord(ctx, "Beta", NewDashRecord{Amount: amount(5)})
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.AddRecord(ctx, "Gamma", NewDashRecord{Amount: amount(5), Description: "fuel"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDashboardCompanyService_RecordLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newDashboardService()
	_, err := svc.Create(ctx, "Beta")
	require.NoError(t, err)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c, err := svc.AddRecord(ctx, "Beta", NewDashRecord{Date: &date, Amount: amount(0), Description: "opening"})
	require.NoError(t, err)
	require.Len(t, c.Records, 1)
	rec := c.Records[0]
	assert.Equal(t, date, rec.Date)
	assert.Equal(t, 0.0, rec.Amount)

	blank := ""
	c, err = svc.EditRecord(ctx, "Beta", rec.ID, models.DashRecordPatch{Amount: amount(42), Description: &blank})
	require.NoError(t, err)
	assert.Equal(t, 42.0, c.Records[0].Amount)
	assert.Equal(t, "opening", c.Records[0].Description)
	assert.Equal(t, date, c.Records[0].Date)

	_, err = svc.EditRecord(ctx, "Beta", "missing", models.DashRecordPatch{Amount: amount(1)})
	assert.True(t, errors.Is(err, common.ErrNotFound))

	c, err = svc.DeleteRecord(ctx, "Beta", rec.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Records)

	_, err = svc.DeleteRecord(ctx, "Beta", rec.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDashboardCompanyService_DeleteByName(t *testing.T) {
	ctx := context.Background()
	svc := newDashboardService()
	created, err := svc.Create(ctx, "Beta")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)

	require.NoError(t, svc.DeleteByName(ctx, "Beta"))

	_, err = svc.GetByName(ctx, "Beta")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.True(t, errors.Is(svc.DeleteByName(ctx, "Beta"), common.ErrNotFound))

	// The name is free again.
	_, err = svc.Create(ctx, "Beta")
	assert.NoError(t, err)
}
