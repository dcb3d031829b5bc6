// Package lifecycle owns the expiry rules for ephemeral content and
// the ledger that keeps remote media deletable after the database has
// TTL-expired the owning document.
package lifecycle

import (
	"context"
	"time"

	"gymhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Content lifetimes. Expiry is stamped exactly once, at creation, and
// never mutated afterwards.
const (
	PostTTL         = 24 * time.Hour
	NotificationTTL = 30 * 24 * time.Hour

	// LedgerTTL is the retry budget for a tracked asset: once an entry
	// is due, the sweep has this long to land a successful remote
	// delete before the entry self-expires. The backstop keeps the
	// ledger bounded even if the media store stays down for good.
	LedgerTTL = 24 * time.Hour
)

// Stamp returns the expiry deadline for content created at createdAt.
func Stamp(createdAt time.Time, ttl time.Duration) time.Time {
	return createdAt.Add(ttl)
}

// EntryStore persists ledger entries. The unique index on remoteId is
// what the Ledger's idempotency leans on.
type EntryStore interface {
	Insert(ctx context.Context, entry models.ExpiredMedia) error
}

// Ledger records remote media ids whose assets must eventually be
// deleted from the media store. The database TTL monitor deletes
// expired documents silently, so the app cannot hook their removal;
// registering media here at creation time is what keeps the asset
// reachable for cleanup afterwards.
//
// An entry's selfExpireAt is its due time: media attached to ephemeral
// content is registered at creation with the content's own expiry (the
// asset must outlive the post), while media orphaned by an explicit
// delete is registered as due immediately. The sweep only touches due
// entries, and the collection's TTL index removes an entry LedgerTTL
// after it came due.
type Ledger struct {
	store EntryStore
	now   func() time.Time
}

func NewLedger(store EntryStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Track registers a remote id for deletion once due has passed.
// Registration is idempotent: a duplicate-key failure means the id is
// already tracked and is not an error. Anything else is returned to
// the caller, who logs it and moves on — a tracking failure must never
// abort the surrounding create or delete.
func (l *Ledger) Track(ctx context.Context, remoteID, kind string, due time.Time) error {
	err := l.store.Insert(ctx, models.ExpiredMedia{
		RemoteID:     remoteID,
		Kind:         kind,
		TrackedAt:    l.now(),
		SelfExpireAt: due,
	})
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// TrackMedia is Track for an optional media reference.
func (l *Ledger) TrackMedia(ctx context.Context, m *models.Media, due time.Time) error {
	if m == nil {
		return nil
	}
	return l.Track(ctx, m.RemoteID, m.Kind, due)
}
