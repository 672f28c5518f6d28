// internal/repository/mongo/kv_store.go
package mongo

import (
	"context"
	"errors"
	"gymnotes/training-tracker/internal/storage"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultKVCollectionName = "kv"

// kvDocument is one stored key. The key doubles as the document _id.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoKVStore implements storage.Store on top of a single collection.
type mongoKVStore struct {
	collection *mongo.Collection
}

// NewMongoKVStore creates a key-value store backed by MongoDB.
func NewMongoKVStore(db *mongo.Database, collectionName string) storage.Store {
	if collectionName == "" {
		collectionName = defaultKVCollectionName
	}
	return &mongoKVStore{
		collection: db.Collection(collectionName),
	}
}

// Get retrieves the value stored under key.
func (s *mongoKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}
	return doc.Value, true, nil
}

// Set replaces (or inserts) the document for key in one write.
func (s *mongoKVStore) Set(ctx context.Context, key, value string) error {
	doc := kvDocument{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}
