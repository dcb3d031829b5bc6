// Package cleanup reconciles the deletions Mongo's TTL monitor cannot
// express. TTL removal happens inside the database with no hook, so
// remote media tied to expired documents has to be deleted out-of-band:
// a ledger sweep drains expired_media against the media store, and an
// orphan-post sweep catches posts the TTL monitor has not removed yet.
package cleanup

import (
	"context"
	"log"
	"time"

	"gymhub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerStore reads and clears pending remote deletions. Due returns
// only entries whose selfExpireAt has passed: media registered at
// content creation stays untouched until the content itself has
// expired.
type LedgerStore interface {
	Due(ctx context.Context, now time.Time) ([]models.ExpiredMedia, error)
	Remove(ctx context.Context, remoteID string) error
}

// PostStore exposes the posts the TTL monitor should already have
// removed.
type PostStore interface {
	FindExpired(ctx context.Context, now time.Time) ([]models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MediaDeleter deletes a remote asset by id.
type MediaDeleter interface {
	Delete(ctx context.Context, remoteID, kind string) error
}

// Tracker registers media for eventual deletion (lifecycle.Ledger).
type Tracker interface {
	TrackMedia(ctx context.Context, m *models.Media, due time.Time) error
}

// Coordinator runs the two periodic sweeps. Entries are independent:
// one failure is logged and never aborts the rest of the batch, and a
// failed entry is simply retried on the next cycle.
type Coordinator struct {
	ledger LedgerStore
	media  MediaDeleter
	posts  PostStore
	track  Tracker
	now    func() time.Time
}

func NewCoordinator(ledger LedgerStore, media MediaDeleter, posts PostStore, track Tracker) *Coordinator {
	return &Coordinator{
		ledger: ledger,
		media:  media,
		posts:  posts,
		track:  track,
		now:    time.Now,
	}
}

// SweepLedger deletes every tracked remote asset and clears its ledger
// entry. An entry is removed only after the media store confirms the
// delete; on failure the entry stays put and the next hourly run
// retries it. The entry's own selfExpireAt TTL is the backstop if the
// media store never recovers.
func (c *Coordinator) SweepLedger(ctx context.Context) {
	entries, err := c.ledger.Due(ctx, c.now())
	if err != nil {
		log.Printf("ledger sweep: fetch failed: %v", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	cleared := 0
	for _, e := range entries {
		if err := c.media.Delete(ctx, e.RemoteID, e.Kind); err != nil {
			log.Printf("ledger sweep: remote delete %s failed, keeping entry: %v", e.RemoteID, err)
			continue
		}
		if err := c.ledger.Remove(ctx, e.RemoteID); err != nil {
			log.Printf("ledger sweep: clear entry %s failed: %v", e.RemoteID, err)
			continue
		}
		cleared++
	}
	log.Printf("ledger sweep: cleared %d/%d entries", cleared, len(entries))
}

// SweepExpiredPosts removes posts whose expiresAt has passed but that
// the TTL monitor has not deleted yet. Media is registered with the
// ledger before the document goes away, so the asset is never
// orphaned; a post whose media cannot be tracked is left for the next
// run rather than deleted with its media unaccounted for.
func (c *Coordinator) SweepExpiredPosts(ctx context.Context) {
	posts, err := c.posts.FindExpired(ctx, c.now())
	if err != nil {
		log.Printf("expired-post sweep: fetch failed: %v", err)
		return
	}
	if len(posts) == 0 {
		return
	}

	removed := 0
	now := c.now()
	for _, p := range posts {
		if p.Media != nil {
			if err := c.track.TrackMedia(ctx, p.Media, now); err != nil {
				log.Printf("expired-post sweep: track media for post %s failed: %v", p.ID.Hex(), err)
				continue
			}
		}
		if err := c.posts.Delete(ctx, p.ID); err != nil {
			log.Printf("expired-post sweep: delete post %s failed: %v", p.ID.Hex(), err)
			continue
		}
		removed++
	}
	log.Printf("expired-post sweep: removed %d/%d posts", removed, len(posts))
}
