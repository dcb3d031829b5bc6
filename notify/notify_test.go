package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymhub/lifecycle"
	"gymhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- mocks ---

type mockUserFinder struct{ mock.Mock }

func (m *mockUserFinder) FindIDs(ctx context.Context, rule Rule) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, rule)
	if ids, _ := args.Get(0).([]primitive.ObjectID); ids != nil {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Insert(ctx context.Context, n models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type mockPusher struct{ mock.Mock }

func (m *mockPusher) Send(ctx context.Context, userID primitive.ObjectID, payload []byte) error {
	return m.Called(ctx, userID, payload).Error(0)
}

func newTestService(users *mockUserFinder, store *mockNotificationStore, push *mockPusher, now time.Time) *Service {
	s := NewService(users, store, push)
	s.now = func() time.Time { return now }
	return s
}

// --- audience ---

func TestResolveAudienceExcludesTriggeringMember(t *testing.T) {
	author := primitive.NewObjectID()
	other1 := primitive.NewObjectID()
	other2 := primitive.NewObjectID()

	users := &mockUserFinder{}
	users.On("FindIDs", mock.Anything, RuleActiveMembers()).
		Return([]primitive.ObjectID{other1, author, other2}, nil)

	s := newTestService(users, &mockNotificationStore{}, &mockPusher{}, time.Now())

	audience, err := s.ResolveAudience(context.Background(), RuleActiveMembers(), &author)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{other1, other2}, audience)
}

func TestResolveAudienceNilExcludeKeepsEveryone(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	users := &mockUserFinder{}
	users.On("FindIDs", mock.Anything, RuleAll()).Return(ids, nil)

	s := newTestService(users, &mockNotificationStore{}, &mockPusher{}, time.Now())

	audience, err := s.ResolveAudience(context.Background(), RuleAll(), nil)
	require.NoError(t, err)
	assert.Equal(t, ids, audience)
}

// --- single delivery ---

func TestNotifyOneStampsThirtyDayExpiry(t *testing.T) {
	now := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	recipient := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	related := primitive.NewObjectID()

	store := &mockNotificationStore{}
	store.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == recipient &&
			n.SenderID != nil && *n.SenderID == sender &&
			n.Type == models.NotificationLike &&
			n.RelatedID != nil && *n.RelatedID == related &&
			n.ExpiresAt.Equal(now.Add(lifecycle.NotificationTTL))
	})).Return(nil)

	push := &mockPusher{}
	push.On("Send", mock.Anything, recipient, mock.Anything).Return(nil)

	s := newTestService(&mockUserFinder{}, store, push, now)

	err := s.NotifyOne(context.Background(), recipient, Event{
		Sender:    &sender,
		Type:      models.NotificationLike,
		Title:     "GymHub",
		Body:      "Someone liked your post",
		RelatedID: &related,
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
	push.AssertExpectations(t)
}

func TestNotifyOnePushFailureDoesNotUndoRecord(t *testing.T) {
	recipient := primitive.NewObjectID()

	store := &mockNotificationStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	push := &mockPusher{}
	push.On("Send", mock.Anything, recipient, mock.Anything).Return(errors.New("provider 500"))

	s := newTestService(&mockUserFinder{}, store, push, time.Now())

	err := s.NotifyOne(context.Background(), recipient, Event{Type: models.NotificationBroadcast, Body: "hi"})
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestNotifyOneRecordFailureSkipsPush(t *testing.T) {
	recipient := primitive.NewObjectID()
	boom := errors.New("write failed")

	store := &mockNotificationStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(boom)

	push := &mockPusher{}

	s := newTestService(&mockUserFinder{}, store, push, time.Now())

	err := s.NotifyOne(context.Background(), recipient, Event{Type: models.NotificationBroadcast, Body: "hi"})
	assert.ErrorIs(t, err, boom)
	push.AssertNotCalled(t, "Send")
}

// --- fan-out ---

func TestBroadcastIsolatesRecipientFailures(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	users := &mockUserFinder{}
	users.On("FindIDs", mock.Anything, RuleActiveMembers()).
		Return([]primitive.ObjectID{a, b, c}, nil)

	store := &mockNotificationStore{}
	store.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool { return n.UserID == b })).
		Return(errors.New("write failed"))
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	push := &mockPusher{}
	push.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s := newTestService(users, store, push, time.Now())

	delivered, err := s.Broadcast(context.Background(), RuleActiveMembers(), nil, Event{
		Type: models.NotificationBroadcast,
		Body: "New yoga class on Saturdays",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
}

func TestBroadcastAudienceErrorAborts(t *testing.T) {
	users := &mockUserFinder{}
	users.On("FindIDs", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

	store := &mockNotificationStore{}

	s := newTestService(users, store, &mockPusher{}, time.Now())

	delivered, err := s.Broadcast(context.Background(), RuleAll(), nil, Event{Body: "x"})
	assert.Error(t, err)
	assert.Zero(t, delivered)
	store.AssertNotCalled(t, "Insert")
}
