package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/repositories"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	companiesCollection          = "companies"
	dashboardCompaniesCollection = "dashboard_companies"
	inventoriesCollection        = "inventories"
	usersCollection              = "users"
)

// Store is the MongoDB backend. Each document kind lives in its own collection
// and nested records are changed with single-document update operators.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, verifies the connection and ensures the unique indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("database", database).Msg("MongoDB connected successfully")
	return s, nil
}

// EnsureIndexes creates the unique keys the repositories rely on for conflict detection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := []struct {
		collection string
		field      string
	}{
		{dashboardCompaniesCollection, "name"},
		{inventoriesCollection, "type"},
		{usersCollection, "username"},
	}
	for _, u := range unique {
		_, err := s.db.Collection(u.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: u.field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create %s.%s index: %w", u.collection, u.field, err)
		}
	}
	_, err := s.db.Collection(companiesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create companies.name index: %w", err)
	}
	return nil
}

func (s *Store) Repositories() repositories.Store {
	return repositories.Store{
		Companies:          &companyRepo{coll: s.db.Collection(companiesCollection)},
		DashboardCompanies: &dashboardRepo{coll: s.db.Collection(dashboardCompaniesCollection)},
		Inventories:        &inventoryRepo{coll: s.db.Collection(inventoriesCollection)},
		Users:              &userRepo{coll: s.db.Collection(usersCollection)},
		Ping: func(ctx context.Context) error {
			return s.client.Ping(ctx, nil)
		},
		Close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.client.Disconnect(ctx); err != nil {
				log.Warn().Err(err).Msg("MongoDB disconnect failed")
			}
		},
	}
}

var afterUpdate = options.FindOneAndUpdate().SetReturnDocument(options.After)

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// exists reports whether a document matches filter.
func exists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, common.StoreError("count "+coll.Name(), err)
	}
	return n > 0, nil
}

func setFields(prefix string, fields bson.M) bson.M {
	out := bson.M{}
	for k, v := range fields {
		out[prefix+k] = v
	}
	return out
}
