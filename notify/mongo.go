package notify

import (
	"context"

	"gymhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserFinder struct {
	users *mongo.Collection
}

// NewMongoUserFinder resolves audience rules against the users
// collection.
func NewMongoUserFinder(users *mongo.Collection) UserFinder {
	return &mongoUserFinder{users: users}
}

func (f *mongoUserFinder) FindIDs(ctx context.Context, rule Rule) ([]primitive.ObjectID, error) {
	var filter bson.M
	switch rule.kind {
	case ruleActiveMembers:
		filter = bson.M{"verified": true, "suspended": false}
	case ruleActiveSubscribed:
		filter = bson.M{
			"verified":         true,
			"suspended":        false,
			"pushSubscription": bson.M{"$exists": true, "$ne": nil},
		}
	case ruleMembers:
		filter = bson.M{"_id": bson.M{"$in": rule.ids}}
	default:
		filter = bson.M{}
	}

	cursor, err := f.users.Find(ctx, filter,
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

type mongoNotificationStore struct {
	coll *mongo.Collection
}

// NewMongoNotificationStore persists notifications.
func NewMongoNotificationStore(coll *mongo.Collection) NotificationStore {
	return &mongoNotificationStore{coll: coll}
}

func (s *mongoNotificationStore) Insert(ctx context.Context, n models.Notification) error {
	_, err := s.coll.InsertOne(ctx, n)
	return err
}
