package mongostore

import (
	"context"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type companyRepo struct {
	coll *mongo.Collection
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	if company.Records == nil {
		company.Records = []models.Record{}
	}
	_, err := r.coll.InsertOne(ctx, company)
	return common.StoreError("create company", err)
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if isNoDocuments(err) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("load company", err)
	}
	return normalizeCompany(&company), nil
}

func (r *companyRepo) List(ctx context.Context) ([]*models.Company, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, common.StoreError("list companies", err)
	}
	var companies []*models.Company
	if err := cur.All(ctx, &companies); err != nil {
		return nil, common.StoreError("decode companies", err)
	}
	for _, c := range companies {
		normalizeCompany(c)
	}
	if companies == nil {
		companies = []*models.Company{}
	}
	return companies, nil
}

func (r *companyRepo) ListNames(ctx context.Context) ([]models.CompanyName, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, common.StoreError("list company names", err)
	}
	names := []models.CompanyName{}
	if err := cur.All(ctx, &names); err != nil {
		return nil, common.StoreError("decode company names", err)
	}
	return names, nil
}

func (r *companyRepo) Update(ctx context.Context, id string, patch models.CompanyPatch) (*models.Company, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Records != nil {
		set["records"] = *patch.Records
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	var company models.Company
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate).Decode(&company)
	if isNoDocuments(err) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("update company", err)
	}
	return normalizeCompany(&company), nil
}

func (r *companyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.StoreError("delete company", err)
	}
	if res.DeletedCount == 0 {
		return common.NotFound("Company not found")
	}
	return nil
}

func (r *companyRepo) AddRecord(ctx context.Context, companyID string, record models.Record) (*models.Company, error) {
	var company models.Company
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": companyID},
		bson.M{"$push": bson.M{"records": record}},
		afterUpdate,
	).Decode(&company)
	if isNoDocuments(err) {
		return nil, common.NotFound("Company not found")
	}
	if err != nil {
		return nil, common.StoreError("add record", err)
	}
	return normalizeCompany(&company), nil
}

func (r *companyRepo) UpdateRecord(ctx context.Context, companyID, recordID string, patch models.RecordPatch) (*models.Company, error) {
	filter := bson.M{"_id": companyID, "records.id": recordID}
	fields := recordPatchFields(patch)
	if patch.IsEmpty() {
		return r.findWithRecord(ctx, filter, companyID)
	}

	var company models.Company
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": setFields("records.$.", fields)}, afterUpdate).Decode(&company)
	if isNoDocuments(err) {
		return nil, r.missing(ctx, companyID)
	}
	if err != nil {
		return nil, common.StoreError("update record", err)
	}
	return normalizeCompany(&company), nil
}

func (r *companyRepo) DeleteRecord(ctx context.Context, companyID, recordID string) (*models.Company, error) {
	var company models.Company
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": companyID, "records.id": recordID},
		bson.M{"$pull": bson.M{"records": bson.M{"id": recordID}}},
		afterUpdate,
	).Decode(&company)
	if isNoDocuments(err) {
		return nil, r.missing(ctx, companyID)
	}
	if err != nil {
		return nil, common.StoreError("delete record", err)
	}
	return normalizeCompany(&company), nil
}

func (r *companyRepo) findWithRecord(ctx context.Context, filter bson.M, companyID string) (*models.Company, error) {
	var company models.Company
	err := r.coll.FindOne(ctx, filter).Decode(&company)
	if isNoDocuments(err) {
		return nil, r.missing(ctx, companyID)
	}
	if err != nil {
		return nil, common.StoreError("load company", err)
	}
	return normalizeCompany(&company), nil
}

func (r *companyRepo) missing(ctx context.Context, companyID string) error {
	ok, err := exists(ctx, r.coll, bson.M{"_id": companyID})
	if err != nil {
		return err
	}
	if !ok {
		return common.NotFound("Company not found")
	}
	return common.NotFound("Record not found")
}

func recordPatchFields(p models.RecordPatch) bson.M {
	fields := bson.M{}
	if p.Date != nil {
		fields["date"] = *p.Date
	}
	if p.InvoiceNo != nil {
		fields["invoiceNo"] = *p.InvoiceNo
	}
	if p.ContainerNo != nil {
		fields["containerNo"] = *p.ContainerNo
	}
	if p.Product != nil {
		fields["product"] = *p.Product
	}
	if p.Advance != nil {
		fields["advance"] = *p.Advance
	}
	return fields
}

func normalizeCompany(c *models.Company) *models.Company {
	if c.Records == nil {
		c.Records = []models.Record{}
	}
	return c
}
