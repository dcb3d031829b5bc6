package push

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- mocks ---

type mockSubscriptionStore struct{ mock.Mock }

func (m *mockSubscriptionStore) Get(ctx context.Context, userID primitive.ObjectID) (*webpush.Subscription, error) {
	args := m.Called(ctx, userID)
	if sub, _ := args.Get(0).(*webpush.Subscription); sub != nil {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubscriptionStore) Save(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	return m.Called(ctx, userID, sub).Error(0)
}
func (m *mockSubscriptionStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return m.Called(ctx, userID).Error(0)
}

func testConfig() Config {
	return Config{
		PublicKey:  "test-public",
		PrivateKey: "test-private",
		Subscriber: "mailto:admin@gymhub.fit",
	}
}

func fakeResponse(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}
}

func testSubscription() *webpush.Subscription {
	return &webpush.Subscription{Endpoint: "https://push.example.com/sub/abc"}
}

// --- tests ---

func TestSendWithoutSubscriptionIsFree(t *testing.T) {
	userID := primitive.NewObjectID()

	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, userID).Return(nil, nil)

	svc := New(testConfig(), subs)
	svc.send = func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
		t.Fatal("provider must not be called for a member without a subscription")
		return nil, nil
	}

	err := svc.Send(context.Background(), userID, []byte(`{}`))
	assert.NoError(t, err)
}

func TestSendDeliversWithConfiguredVAPID(t *testing.T) {
	userID := primitive.NewObjectID()

	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, userID).Return(testSubscription(), nil)

	svc := New(testConfig(), subs)

	var gotOpts *webpush.Options
	svc.send = func(msg []byte, sub *webpush.Subscription, opts *webpush.Options) (*http.Response, error) {
		gotOpts = opts
		return fakeResponse(http.StatusCreated), nil
	}

	err := svc.Send(context.Background(), userID, []byte(`{"title":"GymHub"}`))
	require.NoError(t, err)
	require.NotNil(t, gotOpts)
	assert.Equal(t, "test-public", gotOpts.VAPIDPublicKey)
	assert.Equal(t, "test-private", gotOpts.VAPIDPrivateKey)
	assert.Equal(t, "mailto:admin@gymhub.fit", gotOpts.Subscriber)
}

func TestSendPrunesGoneSubscription(t *testing.T) {
	userID := primitive.NewObjectID()

	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, userID).Return(testSubscription(), nil)
	subs.On("Clear", mock.Anything, userID).Return(nil)

	svc := New(testConfig(), subs)
	svc.send = func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
		return fakeResponse(http.StatusGone), nil
	}

	err := svc.Send(context.Background(), userID, []byte(`{}`))
	assert.Error(t, err)
	subs.AssertCalled(t, "Clear", mock.Anything, userID)
}

func TestSendPrunesNotFoundSubscription(t *testing.T) {
	userID := primitive.NewObjectID()

	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, userID).Return(testSubscription(), nil)
	subs.On("Clear", mock.Anything, userID).Return(nil)

	svc := New(testConfig(), subs)
	svc.send = func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
		return fakeResponse(http.StatusNotFound), nil
	}

	err := svc.Send(context.Background(), userID, []byte(`{}`))
	assert.Error(t, err)
	subs.AssertCalled(t, "Clear", mock.Anything, userID)
}

func TestSendKeepsSubscriptionOnTransientError(t *testing.T) {
	userID := primitive.NewObjectID()

	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, userID).Return(testSubscription(), nil)

	svc := New(testConfig(), subs)
	svc.send = func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
		return fakeResponse(http.StatusInternalServerError), nil
	}

	err := svc.Send(context.Background(), userID, []byte(`{}`))
	assert.Error(t, err)
	subs.AssertNotCalled(t, "Clear")
}

func TestSendPropagatesStoreError(t *testing.T) {
	userID := primitive.NewObjectID()
	boom := errors.New("store down")

	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, userID).Return(nil, boom)

	svc := New(testConfig(), subs)

	err := svc.Send(context.Background(), userID, []byte(`{}`))
	assert.ErrorIs(t, err, boom)
}
