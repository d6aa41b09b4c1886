package mongostore

import (
	"context"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.Roles == nil {
		user.Roles = []string{}
	}
	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return common.Conflict("User already exists")
	}
	return common.StoreError("create user", err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if isNoDocuments(err) {
		return nil, common.NotFound("User not found")
	}
	if err != nil {
		return nil, common.StoreError("load user", err)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, common.StoreError("list users", err)
	}
	users := []*models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, common.StoreError("decode users", err)
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	set := bson.M{}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.PasswordHash != nil {
		set["password"] = *patch.PasswordHash
	}
	if patch.Roles != nil {
		set["roles"] = *patch.Roles
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate).Decode(&user)
	switch {
	case isNoDocuments(err):
		return nil, common.NotFound("User not found")
	case mongo.IsDuplicateKeyError(err):
		return nil, common.Conflict("User already exists")
	case err != nil:
		return nil, common.StoreError("update user", err)
	}
	return &user, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.StoreError("delete user", err)
	}
	if res.DeletedCount == 0 {
		return common.NotFound("User not found")
	}
	return nil
}
