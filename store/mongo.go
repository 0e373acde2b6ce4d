package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMongoDatabase   = "flowfinance"
	defaultMongoCollection = "state"
)

// Collection is the subset of *mongo.Collection used by Mongo.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// record is the document holding one key.
type record struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Mongo is a Storage where each key is a document of a MongoDB collection.
type Mongo struct {
	coll   Collection
	client *mongo.Client
}

// NewMongo returns a Mongo storage over coll.
func NewMongo(coll Collection) *Mongo { return &Mongo{coll: coll} }

// ConnectMongo establishes a connection to MongoDB and checks it with a ping.
//
// Empty database or collection names default to "flowfinance" and "state".
func ConnectMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is missing")
	}
	if database == "" {
		database = defaultMongoDatabase
	}
	if collection == "" {
		collection = defaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &Mongo{coll: client.Database(database).Collection(collection), client: client}, nil
}

// Close disconnects the client opened by ConnectMongo.
func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(context.Background())
}

func (m *Mongo) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	var r record
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("could not read %q: %w", key, err)
	}
	return r.Value, true, nil
}

func (m *Mongo) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, record{Key: key, Value: value}, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("could not delete %q: %w", key, err)
	}
	return nil
}

// Clear deletes every document of the collection.
func (m *Mongo) Clear(ctx context.Context) error {
	if _, err := m.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("could not clear collection: %w", err)
	}
	return nil
}
