// Package motivation drives the twice-daily motivational broadcasts
// and the best-effort engagement tracking behind them.
package motivation

import (
	"context"
	"log"
	"math/rand"
	"time"

	"gymhub/models"
	"gymhub/notify"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementWindow is how long after a motivational notification a new
// post still counts as engagement.
const EngagementWindow = 30 * time.Minute

// Fallbacks when no active custom message exists for a slot.
var defaultMessages = []string{
	"Every rep counts. Make today's workout happen! 💪",
	"Small progress is still progress. See you at the gym!",
	"Your only competition is who you were yesterday.",
	"Discipline beats motivation. Show up anyway.",
	"Strong body, strong mind. Get moving!",
	"The hardest lift of the day is the front door. Come push it.",
}

// MessageStore reads admin-authored messages.
type MessageStore interface {
	ActiveBySlot(ctx context.Context, slot string) ([]models.MotivationMessage, error)
}

// NotificationFinder looks up a member's recent motivational
// notification for engagement matching.
type NotificationFinder interface {
	LastMotivational(ctx context.Context, userID primitive.ObjectID, since time.Time) (*models.Notification, error)
}

// EngagementStore persists engagement rows.
type EngagementStore interface {
	Insert(ctx context.Context, e models.Engagement) error
}

// Broadcaster is the fan-out service.
type Broadcaster interface {
	Broadcast(ctx context.Context, rule notify.Rule, exclude *primitive.ObjectID, ev notify.Event) (int, error)
}

type Service struct {
	messages    MessageStore
	notifs      NotificationFinder
	engagements EngagementStore
	fanout      Broadcaster
	intn        func(n int) int
	now         func() time.Time
}

func NewService(messages MessageStore, notifs NotificationFinder, engagements EngagementStore, fanout Broadcaster) *Service {
	return &Service{
		messages:    messages,
		notifs:      notifs,
		engagements: engagements,
		fanout:      fanout,
		intn:        rand.Intn,
		now:         time.Now,
	}
}

// pickMessage selects uniformly among the slot's active custom
// messages, falling back to the built-in defaults when there are none.
func (s *Service) pickMessage(ctx context.Context, slot string) string {
	custom, err := s.messages.ActiveBySlot(ctx, slot)
	if err != nil {
		log.Printf("motivation: loading %s messages failed, using defaults: %v", slot, err)
	}
	if len(custom) > 0 {
		return custom[s.intn(len(custom))].Text
	}
	return defaultMessages[s.intn(len(defaultMessages))]
}

// BroadcastSlot sends the slot's message to every active member with a
// push subscription. Scheduled job entrypoint.
func (s *Service) BroadcastSlot(ctx context.Context, slot string) {
	text := s.pickMessage(ctx, slot)

	delivered, err := s.fanout.Broadcast(ctx, notify.RuleActiveSubscribed(), nil, notify.Event{
		Type:  models.NotificationMotivational,
		Title: "GymHub",
		Body:  text,
	})
	if err != nil {
		log.Printf("motivation: %s broadcast failed: %v", slot, err)
		return
	}
	log.Printf("motivation: %s broadcast reached %d members", slot, delivered)
}

// RecordEngagement notes that userID posted at postedAt shortly after a
// motivational notification, if one exists inside the look-back
// window. Best-effort: callers run it in the background and ignore the
// returned error beyond logging.
func (s *Service) RecordEngagement(ctx context.Context, userID primitive.ObjectID, postedAt time.Time) error {
	n, err := s.notifs.LastMotivational(ctx, userID, postedAt.Add(-EngagementWindow))
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}

	return s.engagements.Insert(ctx, models.Engagement{
		UserID:         userID,
		NotificationID: n.ID,
		NotifiedAt:     n.CreatedAt,
		PostedAt:       postedAt,
	})
}
