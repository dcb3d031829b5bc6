// Package push wraps Web Push delivery. VAPID configuration is a
// process-scoped service built once in main and handed to whoever
// sends, not a package global.
package push

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Config holds the VAPID key pair and contact address.
type Config struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
}

// LoadConfig reads VAPID settings from the environment. Missing keys
// are generated on the spot so development works out of the box; real
// deployments must pin them, otherwise existing subscriptions break on
// restart.
func LoadConfig() (Config, error) {
	cfg := Config{
		PublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		PrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		Subscriber: os.Getenv("VAPID_SUBSCRIBER"),
	}
	if cfg.Subscriber == "" {
		cfg.Subscriber = "mailto:admin@gymhub.fit"
	}

	if cfg.PublicKey == "" || cfg.PrivateKey == "" {
		privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			return Config{}, err
		}
		cfg.PublicKey = publicKey
		cfg.PrivateKey = privateKey
		log.Println("⚠️  Generated new VAPID keys - for production, set these as environment variables:")
		log.Printf("   VAPID_PUBLIC_KEY: %s", publicKey)
		log.Printf("   VAPID_PRIVATE_KEY: %s", privateKey)
	}
	return cfg, nil
}

// SubscriptionStore reads and mutates the per-member subscription
// (at most one per member, stored on the user document).
type SubscriptionStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*webpush.Subscription, error)
	Save(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// SendFunc matches webpush.SendNotification; swapped out in tests.
type SendFunc func(message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error)

// Service sends push messages and self-heals the subscription store:
// when the provider reports an endpoint permanently gone, the member's
// subscription is removed so we stop sending into the void.
type Service struct {
	cfg  Config
	subs SubscriptionStore
	send SendFunc
}

func New(cfg Config, subs SubscriptionStore) *Service {
	return &Service{cfg: cfg, subs: subs, send: webpush.SendNotification}
}

// PublicKey is what browsers need to subscribe.
func (s *Service) PublicKey() string {
	return s.cfg.PublicKey
}

// Subscriptions exposes the store for subscribe/unsubscribe handlers.
func (s *Service) Subscriptions() SubscriptionStore {
	return s.subs
}

// Send delivers payload to userID's subscription, if there is one.
// A member without a subscription is not an error and costs no
// provider call.
func (s *Service) Send(ctx context.Context, userID primitive.ObjectID, payload []byte) error {
	sub, err := s.subs.Get(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}

	resp, err := s.send(payload, sub, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.PublicKey,
		VAPIDPrivateKey: s.cfg.PrivateKey,
		TTL:             60,
	})
	if resp != nil {
		defer resp.Body.Close()

		// 404/410 is the provider telling us the endpoint no longer
		// exists; drop the subscription so the next fan-out skips it.
		if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
			log.Printf("push subscription gone for user %s, removing", userID.Hex())
			if clearErr := s.subs.Clear(ctx, userID); clearErr != nil {
				log.Printf("failed to remove gone subscription for user %s: %v", userID.Hex(), clearErr)
			}
			return fmt.Errorf("subscription gone (status %d)", resp.StatusCode)
		}
	}
	if err != nil {
		return err
	}
	if resp != nil && resp.StatusCode >= 400 {
		return fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}
	return nil
}
