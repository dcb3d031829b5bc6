package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpiredMedia is a ledger entry for a remote asset whose owning
// document is gone (or about to be). The cleanup sweep drains these
// against the media store; an entry is only removed after a confirmed
// remote delete. SelfExpireAt is the entry's due time (the owning
// content's own expiry, or the moment of an explicit delete) and also
// feeds a TTL index that removes the entry a fixed window later, so
// the ledger cannot grow without bound if the remote store stays down.
//
// RemoteID carries a unique index, which makes tracking idempotent.
type ExpiredMedia struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RemoteID     string             `bson:"remoteId" json:"remoteId"`
	Kind         string             `bson:"kind" json:"kind"`
	TrackedAt    time.Time          `bson:"trackedAt" json:"trackedAt"`
	SelfExpireAt time.Time          `bson:"selfExpireAt" json:"selfExpireAt"`
}
