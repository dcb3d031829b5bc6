package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationNewPost      = "new_post"
	NotificationLike         = "like"
	NotificationComment      = "comment"
	NotificationBroadcast    = "broadcast"
	NotificationMotivational = "motivational"
)

// Notification is the in-app record of a delivered event. Like posts it
// is ephemeral: ExpiresAt (createdAt + 30d) backs a TTL index.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	SenderID  *primitive.ObjectID `bson:"senderId,omitempty" json:"senderId,omitempty"` // nil for system/admin
	Type      string              `bson:"type" json:"type"`
	Content   string              `bson:"content" json:"content"`
	RelatedID *primitive.ObjectID `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time           `bson:"expiresAt" json:"expiresAt"`
}
