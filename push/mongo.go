package push

import (
	"context"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoSubscriptionStore struct {
	users *mongo.Collection
}

// NewMongoSubscriptionStore keeps subscriptions on the user document.
func NewMongoSubscriptionStore(users *mongo.Collection) SubscriptionStore {
	return &mongoSubscriptionStore{users: users}
}

func (s *mongoSubscriptionStore) Get(ctx context.Context, userID primitive.ObjectID) (*webpush.Subscription, error) {
	var doc struct {
		PushSubscription *webpush.Subscription `bson:"pushSubscription"`
	}
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.PushSubscription, nil
}

func (s *mongoSubscriptionStore) Save(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"pushSubscription": sub}},
	)
	return err
}

func (s *mongoSubscriptionStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"pushSubscription": nil}},
	)
	return err
}
