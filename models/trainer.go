package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Trainer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Specialty string             `bson:"specialty" json:"specialty"`
	Bio       string             `bson:"bio" json:"bio"`
	Photo     *Media             `bson:"photo,omitempty" json:"photo,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Class struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Schedule    string             `bson:"schedule" json:"schedule"` // e.g. "Mon/Wed 18:00"
	Capacity    int                `bson:"capacity" json:"capacity"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Trainer     *Trainer           `bson:"-" json:"trainer,omitempty"`
}
