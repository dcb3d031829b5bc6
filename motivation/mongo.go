package motivation

import (
	"context"
	"time"

	"gymhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMessageStore struct {
	coll *mongo.Collection
}

// NewMongoMessageStore reads the motivation_messages collection.
func NewMongoMessageStore(coll *mongo.Collection) MessageStore {
	return &mongoMessageStore{coll: coll}
}

func (s *mongoMessageStore) ActiveBySlot(ctx context.Context, slot string) ([]models.MotivationMessage, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"slot": slot, "active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.MotivationMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type mongoNotificationFinder struct {
	coll *mongo.Collection
}

// NewMongoNotificationFinder reads the notifications collection.
func NewMongoNotificationFinder(coll *mongo.Collection) NotificationFinder {
	return &mongoNotificationFinder{coll: coll}
}

func (f *mongoNotificationFinder) LastMotivational(ctx context.Context, userID primitive.ObjectID, since time.Time) (*models.Notification, error) {
	var n models.Notification
	err := f.coll.FindOne(ctx,
		bson.M{
			"userId":    userID,
			"type":      models.NotificationMotivational,
			"createdAt": bson.M{"$gte": since},
		},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

type mongoEngagementStore struct {
	coll *mongo.Collection
}

// NewMongoEngagementStore writes the engagements collection.
func NewMongoEngagementStore(coll *mongo.Collection) EngagementStore {
	return &mongoEngagementStore{coll: coll}
}

func (s *mongoEngagementStore) Insert(ctx context.Context, e models.Engagement) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, e)
	return err
}
