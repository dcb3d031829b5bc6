package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Motivational message time slots.
const (
	SlotMorning = "morning"
	SlotEvening = "evening"
)

// MotivationMessage is an admin-authored message for one of the two
// daily broadcast slots. Inactive messages are kept but never selected.
type MotivationMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	Slot      string             `bson:"slot" json:"slot"` // morning, evening
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Engagement records a member posting shortly after receiving a
// motivational notification. Best-effort analytics only.
type Engagement struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	NotificationID primitive.ObjectID `bson:"notificationId" json:"notificationId"`
	NotifiedAt     time.Time          `bson:"notifiedAt" json:"notifiedAt"`
	PostedAt       time.Time          `bson:"postedAt" json:"postedAt"`
}
