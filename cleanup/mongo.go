package cleanup

import (
	"context"
	"time"

	"gymhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoLedgerStore struct {
	coll *mongo.Collection
}

// NewMongoLedgerStore reads the expired_media collection.
func NewMongoLedgerStore(coll *mongo.Collection) LedgerStore {
	return &mongoLedgerStore{coll: coll}
}

func (s *mongoLedgerStore) Due(ctx context.Context, now time.Time) ([]models.ExpiredMedia, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"selfExpireAt": bson.M{"$lte": now}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.ExpiredMedia
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *mongoLedgerStore) Remove(ctx context.Context, remoteID string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"remoteId": remoteID})
	return err
}

type mongoPostStore struct {
	coll *mongo.Collection
}

// NewMongoPostStore reads the posts collection.
func NewMongoPostStore(coll *mongo.Collection) PostStore {
	return &mongoPostStore{coll: coll}
}

func (s *mongoPostStore) FindExpired(ctx context.Context, now time.Time) ([]models.Post, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *mongoPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
