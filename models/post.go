package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is an ephemeral feed entry. ExpiresAt is stamped once at
// creation (createdAt + 24h) and backs a TTL index, so the store
// removes the document on its own once the deadline passes.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Content   string               `bson:"content" json:"content"`
	Media     *Media               `bson:"media,omitempty" json:"media,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time            `bson:"expiresAt" json:"expiresAt"`
	User      *User                `bson:"-" json:"user,omitempty"` // Populated in response only
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	User      *User              `bson:"-" json:"user,omitempty"`
}
