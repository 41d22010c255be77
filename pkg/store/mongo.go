package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/plan"
)

// MongoStore is a MongoDB-backed Store for shared deployments.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // default "skyplan"
	Collection string // default "plans"
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "skyplan"
	}
	if cfg.Collection == "" {
		cfg.Collection = "plans"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put stores a plan, overwriting any plan with the same ID.
func (s *MongoStore) Put(ctx context.Context, p plan.Plan) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts)
	return err
}

// Get retrieves a plan by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (plan.Plan, error) {
	var p plan.Plan
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return plan.Plan{}, errors.New(errors.ErrCodeNotFound, "plan %s not found", id)
	}
	if err != nil {
		return plan.Plan{}, err
	}
	return p, nil
}

// List returns stored plans, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]plan.Plan, error) {
	findOpts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		findOpts = findOpts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []plan.Plan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a plan.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
