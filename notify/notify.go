// Package notify fans a single event out to an audience of members:
// one in-app notification record per recipient, plus a best-effort
// push. Recipients are independent; one failure never touches the
// rest.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gymhub/lifecycle"
	"gymhub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ruleKind int

const (
	ruleAll ruleKind = iota
	ruleActiveMembers
	ruleActiveSubscribed
	ruleMembers
)

// Rule selects an audience. Exclusion of the triggering member is
// handled by ResolveAudience, not by the rule.
type Rule struct {
	kind ruleKind
	ids  []primitive.ObjectID
}

// RuleAll matches every member.
func RuleAll() Rule { return Rule{kind: ruleAll} }

// RuleActiveMembers matches verified, non-suspended members.
func RuleActiveMembers() Rule { return Rule{kind: ruleActiveMembers} }

// RuleActiveSubscribed matches active members that have a push
// subscription.
func RuleActiveSubscribed() Rule { return Rule{kind: ruleActiveSubscribed} }

// RuleMembers matches an explicit id list.
func RuleMembers(ids ...primitive.ObjectID) Rule { return Rule{kind: ruleMembers, ids: ids} }

// UserFinder resolves a rule to member ids.
type UserFinder interface {
	FindIDs(ctx context.Context, rule Rule) ([]primitive.ObjectID, error)
}

// NotificationStore persists in-app notification records.
type NotificationStore interface {
	Insert(ctx context.Context, n models.Notification) error
}

// Pusher delivers a payload to one member (push.Service). It prunes
// gone subscriptions itself; any error it returns is logged only.
type Pusher interface {
	Send(ctx context.Context, userID primitive.ObjectID, payload []byte) error
}

// Event is one fan-out trigger.
type Event struct {
	Sender    *primitive.ObjectID // nil for system/admin events
	Type      string
	Title     string
	Body      string
	RelatedID *primitive.ObjectID
}

type Service struct {
	users UserFinder
	store NotificationStore
	push  Pusher
	now   func() time.Time
}

func NewService(users UserFinder, store NotificationStore, push Pusher) *Service {
	return &Service{users: users, store: store, push: push, now: time.Now}
}

// ResolveAudience returns the member ids matching rule, never
// including exclude (a member does not get notified about their own
// action).
func (s *Service) ResolveAudience(ctx context.Context, rule Rule, exclude *primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids, err := s.users.FindIDs(ctx, rule)
	if err != nil {
		return nil, err
	}
	if exclude == nil {
		return ids, nil
	}

	out := ids[:0]
	for _, id := range ids {
		if id != *exclude {
			out = append(out, id)
		}
	}
	return out, nil
}

// NotifyOne persists the in-app record, then attempts push delivery.
// The record write is the contract: it either succeeds or the error is
// returned. Push is best-effort on top and can never undo or block the
// persisted record.
func (s *Service) NotifyOne(ctx context.Context, recipient primitive.ObjectID, ev Event) error {
	now := s.now()
	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    recipient,
		SenderID:  ev.Sender,
		Type:      ev.Type,
		Content:   ev.Body,
		RelatedID: ev.RelatedID,
		CreatedAt: now,
		ExpiresAt: lifecycle.Stamp(now, lifecycle.NotificationTTL),
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": ev.Title,
		"body":  ev.Body,
		"type":  ev.Type,
		"data": map[string]interface{}{
			"notificationId": n.ID.Hex(),
			"timestamp":      now.Unix(),
		},
	})
	if err != nil {
		log.Printf("notify: marshal push payload: %v", err)
		return nil
	}

	if err := s.push.Send(ctx, recipient, payload); err != nil {
		log.Printf("notify: push to user %s failed: %v", recipient.Hex(), err)
	}
	return nil
}

// Broadcast resolves the audience and notifies each member. At most N
// record writes and N provider calls for N recipients; per-recipient
// failures are logged and isolated. Returns how many in-app records
// were written.
func (s *Service) Broadcast(ctx context.Context, rule Rule, exclude *primitive.ObjectID, ev Event) (int, error) {
	audience, err := s.ResolveAudience(ctx, rule, exclude)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, recipient := range audience {
		if err := s.NotifyOne(ctx, recipient, ev); err != nil {
			log.Printf("notify: record for user %s failed: %v", recipient.Hex(), err)
			continue
		}
		delivered++
	}
	return delivered, nil
}
