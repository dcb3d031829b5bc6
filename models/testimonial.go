package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Testimonial struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"` // 1-5
	Approved  bool               `bson:"approved" json:"approved"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	User      *User              `bson:"-" json:"user,omitempty"`
}
