package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRecordPatchFields_OnlyPresentFields(t *testing.T) {
	invoice := "INV9"
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fields := recordPatchFields(models.RecordPatch{InvoiceNo: &invoice, Date: &date})

	assert.Equal(t, bson.M{"invoiceNo": "INV9", "date": date}, fields)
	assert.Equal(t, bson.M{"records.$.invoiceNo": "INV9", "records.$.date": date}, setFields("records.$.", fields))
}

func TestDashboardRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate name is a conflict", func(mt *mtest.T) {
		repo := &dashboardRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.DashboardCompany{ID: "d2", Name: "Beta"})
		assert.True(t, errors.Is(err, common.ErrConflict))
	})

	mt.Run("add record pushes and returns the document", func(mt *mtest.T) {
		repo := &dashboardRepo{coll: mt.Coll}
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: "d1"},
				{Key: "name", Value: "Beta"},
				{Key: "records", Value: bson.A{bson.D{
					{Key: "id", Value: "r1"},
					{Key: "amount", Value: 42.5},
					{Key: "description", Value: "freight"},
				}}},
			}},
		})

		company, err := repo.AddRecord(context.Background(), "Beta", models.DashRecord{ID: "r1", Amount: 42.5, Description: "freight"})
		require.NoError(t, err)
		require.Len(t, company.Records, 1)
		assert.Equal(t, 42.5, company.Records[0].Amount)
	})

	mt.Run("delete unknown name is not found", func(mt *mtest.T) {
		repo := &dashboardRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.DeleteByName(context.Background(), "Nobody")
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestCompanyRepo_GetByIDMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not found", func(mt *mtest.T) {
		repo := &companyRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "acme.companies", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "ghost")
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}
