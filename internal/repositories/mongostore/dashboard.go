package mongostore

import (
	"context"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type dashboardRepo struct {
	coll *mongo.Collection
}

func (r *dashboardRepo) Create(ctx context.Context, company *models.DashboardCompany) error {
	if company.Records == nil {
		company.Records = []models.DashRecord{}
	}
	_, err := r.coll.InsertOne(ctx, company)
	if mongo.IsDuplicateKeyError(err) {
		return common.Conflict("Company with this name already exists")
	}
	return common.StoreError("create dashboard company", err)
}

func (r *dashboardRepo) GetByID(ctx context.Context, id string) (*models.DashboardCompany, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *dashboardRepo) GetByName(ctx context.Context, name string) (*models.DashboardCompany, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *dashboardRepo) findOne(ctx context.Context, filter bson.M) (*models.DashboardCompany, error) {
	var company models.DashboardCompany
	err := r.coll.FindOne(ctx, filter).Decode(&company)
	if isNoDocuments(err) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("load dashboard company", err)
	}
	return normalizeDashboard(&company), nil
}

func (r *dashboardRepo) List(ctx context.Context) ([]*models.DashboardCompany, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, common.StoreError("list dashboard companies", err)
	}
	companies := []*models.DashboardCompany{}
	if err := cur.All(ctx, &companies); err != nil {
		return nil, common.StoreError("decode dashboard companies", err)
	}
	for _, c := range companies {
		normalizeDashboard(c)
	}
	return companies, nil
}

func (r *dashboardRepo) DeleteByName(ctx context.Context, name string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return common.StoreError("delete dashboard company", err)
	}
	if res.DeletedCount == 0 {
		return common.NotFound("Company not found")
	}
	return nil
}

func (r *dashboardRepo) AddRecord(ctx context.Context, companyName string, record models.DashRecord) (*models.DashboardCompany, error) {
	var company models.DashboardCompany
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"name": companyName},
		bson.M{"$push": bson.M{"records": record}},
		afterUpdate,
	).Decode(&company)
	if isNoDocuments(err) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("add dashboard record", err)
	}
	return normalizeDashboard(&company), nil
}

func (r *dashboardRepo) UpdateRecord(ctx context.Context, companyName, recordID string, patch models.DashRecordPatch) (*models.DashboardCompany, error) {
	filter := bson.M{"name": companyName, "records.id": recordID}
	fields := bson.M{}
	if patch.Date != nil {
		fields["date"] = *patch.Date
	}
	if patch.Amount != nil {
		fields["amount"] = *patch.Amount
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}

	var company models.DashboardCompany
	var err error
	if patch.IsEmpty() {
		err = r.coll.FindOne(ctx, filter).Decode(&company)
	} else {
		err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": setFields("records.$.", fields)}, afterUpdate).Decode(&company)
	}
	if isNoDocuments(err) {
		return nil, r.missing(ctx, companyName)
	}
	if err != nil {
		return nil, common.StoreError("edit dashboard record", err)
	}
	return normalizeDashboard(&company), nil
}

func (r *dashboardRepo) DeleteRecord(ctx context.Context, companyName, recordID string) (*models.DashboardCompany, error) {
	var company models.DashboardCompany
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"name": companyName, "records.id": recordID},
		bson.M{"$pull": bson.M{"records": bson.M{"id": recordID}}},
		afterUpdate,
	).Decode(&company)
	if isNoDocuments(err) {
		return nil, r.missing(ctx, companyName)
	}
	if err != nil {
		return nil, common.StoreError("delete dashboard record", err)
	}
	return normalizeDashboard(&company), nil
}

func (r *dashboardRepo) missing(ctx context.Context, companyName string) error {
	ok, err := exists(ctx, r.coll, bson.M{"name": companyName})
	if err != nil {
		return err
	}
	if !ok {
		return common.NotFound("Company not found")
	}
	return common.NotFound("Record not found")
}

func normalizeDashboard(c *models.DashboardCompany) *models.DashboardCompany {
	if c.Records == nil {
		c.Records = []models.DashRecord{}
	}
	return c
}
