package models

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"`
	Avatar       *Media             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Goal         string             `bson:"goal" json:"goal"` // weight-loss, muscle-gain, general-fitness
	Verified     bool               `bson:"verified" json:"verified"`
	Suspended    bool               `bson:"suspended" json:"suspended"`

	// At most one subscription per member; cleared when the push
	// provider reports the endpoint permanently gone.
	PushSubscription *webpush.Subscription `bson:"pushSubscription,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	LastSeen  time.Time `bson:"lastSeen" json:"lastSeen"`
}
