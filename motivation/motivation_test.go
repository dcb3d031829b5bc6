package motivation

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymhub/models"
	"gymhub/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- mocks ---

type mockMessageStore struct{ mock.Mock }

func (m *mockMessageStore) ActiveBySlot(ctx context.Context, slot string) ([]models.MotivationMessage, error) {
	args := m.Called(ctx, slot)
	if msgs, _ := args.Get(0).([]models.MotivationMessage); msgs != nil {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotificationFinder struct{ mock.Mock }

func (m *mockNotificationFinder) LastMotivational(ctx context.Context, userID primitive.ObjectID, since time.Time) (*models.Notification, error) {
	args := m.Called(ctx, userID, since)
	if n, _ := args.Get(0).(*models.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEngagementStore struct{ mock.Mock }

func (m *mockEngagementStore) Insert(ctx context.Context, e models.Engagement) error {
	return m.Called(ctx, e).Error(0)
}

type mockBroadcaster struct{ mock.Mock }

func (m *mockBroadcaster) Broadcast(ctx context.Context, rule notify.Rule, exclude *primitive.ObjectID, ev notify.Event) (int, error) {
	args := m.Called(ctx, rule, exclude, ev)
	return args.Int(0), args.Error(1)
}

func newTestService(messages *mockMessageStore, notifs *mockNotificationFinder, engagements *mockEngagementStore, fanout *mockBroadcaster) *Service {
	return NewService(messages, notifs, engagements, fanout)
}

// --- message selection ---

func TestPickMessagePrefersActiveCustomMessages(t *testing.T) {
	messages := &mockMessageStore{}
	messages.On("ActiveBySlot", mock.Anything, models.SlotMorning).Return([]models.MotivationMessage{
		{Text: "first"},
		{Text: "second"},
		{Text: "third"},
	}, nil)

	s := newTestService(messages, &mockNotificationFinder{}, &mockEngagementStore{}, &mockBroadcaster{})
	s.intn = func(n int) int {
		assert.Equal(t, 3, n)
		return 1
	}

	assert.Equal(t, "second", s.pickMessage(context.Background(), models.SlotMorning))
}

func TestPickMessageFallsBackToDefaults(t *testing.T) {
	messages := &mockMessageStore{}
	messages.On("ActiveBySlot", mock.Anything, models.SlotEvening).Return([]models.MotivationMessage{}, nil)

	s := newTestService(messages, &mockNotificationFinder{}, &mockEngagementStore{}, &mockBroadcaster{})
	s.intn = func(n int) int {
		assert.Equal(t, len(defaultMessages), n)
		return 0
	}

	assert.Equal(t, defaultMessages[0], s.pickMessage(context.Background(), models.SlotEvening))
}

func TestPickMessageFallsBackWhenStoreFails(t *testing.T) {
	messages := &mockMessageStore{}
	messages.On("ActiveBySlot", mock.Anything, models.SlotMorning).Return(nil, errors.New("query failed"))

	s := newTestService(messages, &mockNotificationFinder{}, &mockEngagementStore{}, &mockBroadcaster{})
	s.intn = func(n int) int { return 0 }

	assert.Equal(t, defaultMessages[0], s.pickMessage(context.Background(), models.SlotMorning))
}

// --- broadcast ---

func TestBroadcastSlotTargetsSubscribedMembers(t *testing.T) {
	messages := &mockMessageStore{}
	messages.On("ActiveBySlot", mock.Anything, models.SlotMorning).Return([]models.MotivationMessage{
		{Text: "Rise and grind"},
	}, nil)

	fanout := &mockBroadcaster{}
	fanout.On("Broadcast", mock.Anything, notify.RuleActiveSubscribed(), (*primitive.ObjectID)(nil), notify.Event{
		Type:  models.NotificationMotivational,
		Title: "GymHub",
		Body:  "Rise and grind",
	}).Return(42, nil)

	s := newTestService(messages, &mockNotificationFinder{}, &mockEngagementStore{}, fanout)
	s.intn = func(n int) int { return 0 }

	s.BroadcastSlot(context.Background(), models.SlotMorning)
	fanout.AssertExpectations(t)
}

// --- engagement ---

func TestRecordEngagementLinksPostToNotification(t *testing.T) {
	userID := primitive.NewObjectID()
	postedAt := time.Date(2026, 3, 14, 8, 20, 0, 0, time.UTC)
	notifiedAt := postedAt.Add(-10 * time.Minute)
	notification := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      models.NotificationMotivational,
		CreatedAt: notifiedAt,
	}

	notifs := &mockNotificationFinder{}
	notifs.On("LastMotivational", mock.Anything, userID, postedAt.Add(-EngagementWindow)).
		Return(notification, nil)

	engagements := &mockEngagementStore{}
	engagements.On("Insert", mock.Anything, models.Engagement{
		UserID:         userID,
		NotificationID: notification.ID,
		NotifiedAt:     notifiedAt,
		PostedAt:       postedAt,
	}).Return(nil)

	s := newTestService(&mockMessageStore{}, notifs, engagements, &mockBroadcaster{})

	err := s.RecordEngagement(context.Background(), userID, postedAt)
	require.NoError(t, err)
	engagements.AssertExpectations(t)
}

func TestRecordEngagementNoRecentNotificationIsNoop(t *testing.T) {
	userID := primitive.NewObjectID()
	postedAt := time.Now()

	notifs := &mockNotificationFinder{}
	notifs.On("LastMotivational", mock.Anything, userID, mock.Anything).Return(nil, nil)

	engagements := &mockEngagementStore{}

	s := newTestService(&mockMessageStore{}, notifs, engagements, &mockBroadcaster{})

	err := s.RecordEngagement(context.Background(), userID, postedAt)
	assert.NoError(t, err)
	engagements.AssertNotCalled(t, "Insert")
}
