package database

import (
	"context"
	"log"
	"os"
	"time"

	"gymhub/lifecycle"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var Users *mongo.Collection
var Posts *mongo.Collection
var Comments *mongo.Collection
var Notifications *mongo.Collection
var Trainers *mongo.Collection
var Classes *mongo.Collection
var Gallery *mongo.Collection
var Testimonials *mongo.Collection
var Contacts *mongo.Collection
var ExpiredMedia *mongo.Collection
var MotivationMessages *mongo.Collection
var Engagements *mongo.Collection

func ConnectMongo() error {
	// Read MongoDB URI from environment variable
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Println("MONGODB_URI not set, using default localhost")
		uri = "mongodb://127.0.0.1:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	// Ping MongoDB
	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database("gymhub")
	Users = db.Collection("users")
	Posts = db.Collection("posts")
	Comments = db.Collection("comments")
	Notifications = db.Collection("notifications")
	Trainers = db.Collection("trainers")
	Classes = db.Collection("classes")
	Gallery = db.Collection("gallery")
	Testimonials = db.Collection("testimonials")
	Contacts = db.Collection("contacts")
	ExpiredMedia = db.Collection("expired_media")
	MotivationMessages = db.Collection("motivation_messages")
	Engagements = db.Collection("engagements")

	log.Println("Connected to MongoDB successfully")
	return nil
}

// EnsureIndexes creates the TTL and unique indexes the app relies on.
// The TTL indexes (expireAfterSeconds=0 on a date field) make posts,
// notifications and ledger entries self-expiring: Mongo's TTL monitor
// deletes those documents on its own, with no application hook. The
// unique index on expired_media.remoteId makes ledger registration
// idempotent.
func EnsureIndexes(ctx context.Context) error {
	ttl := func(field string, after time.Duration) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(after.Seconds())),
		}
	}

	if _, err := Posts.Indexes().CreateOne(ctx, ttl("expiresAt", 0)); err != nil {
		return err
	}
	if _, err := Notifications.Indexes().CreateOne(ctx, ttl("expiresAt", 0)); err != nil {
		return err
	}
	// Ledger entries get a retry window past their due time before the
	// safety net removes them.
	if _, err := ExpiredMedia.Indexes().CreateOne(ctx, ttl("selfExpireAt", lifecycle.LedgerTTL)); err != nil {
		return err
	}

	if _, err := ExpiredMedia.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "remoteId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	log.Println("MongoDB indexes ensured")
	return nil
}

func DisconnectMongo() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
