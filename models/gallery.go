package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GalleryItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Media     Media              `bson:"media" json:"media"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
