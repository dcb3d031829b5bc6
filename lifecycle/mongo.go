package lifecycle

import (
	"context"

	"gymhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoEntryStore struct {
	coll *mongo.Collection
}

// NewMongoEntryStore backs the ledger with the expired_media
// collection.
func NewMongoEntryStore(coll *mongo.Collection) EntryStore {
	return &mongoEntryStore{coll: coll}
}

func (s *mongoEntryStore) Insert(ctx context.Context, entry models.ExpiredMedia) error {
	_, err := s.coll.InsertOne(ctx, entry)
	return err
}
