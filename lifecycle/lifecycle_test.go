package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// --- mocks ---

type mockEntryStore struct{ mock.Mock }

func (m *mockEntryStore) Insert(ctx context.Context, entry models.ExpiredMedia) error {
	return m.Called(ctx, entry).Error(0)
}

func duplicateKeyErr() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

// --- tests ---

func TestStamp(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, created.Add(24*time.Hour), Stamp(created, PostTTL))
	assert.Equal(t, created.Add(30*24*time.Hour), Stamp(created, NotificationTTL))
}

func TestTrackRecordsDueTime(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	due := now.Add(24 * time.Hour)

	store := &mockEntryStore{}
	store.On("Insert", mock.Anything, models.ExpiredMedia{
		RemoteID:     "gymhub/posts/abc123",
		Kind:         models.MediaKindImage,
		TrackedAt:    now,
		SelfExpireAt: due,
	}).Return(nil)

	ledger := NewLedger(store)
	ledger.now = func() time.Time { return now }

	err := ledger.Track(context.Background(), "gymhub/posts/abc123", models.MediaKindImage, due)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTrackDuplicateIsNotAnError(t *testing.T) {
	store := &mockEntryStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(duplicateKeyErr())

	ledger := NewLedger(store)

	err := ledger.Track(context.Background(), "gymhub/posts/abc123", models.MediaKindImage, time.Now())
	assert.NoError(t, err)
}

func TestTrackSurfacesOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")

	store := &mockEntryStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(boom)

	ledger := NewLedger(store)

	err := ledger.Track(context.Background(), "gymhub/posts/abc123", models.MediaKindImage, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestTrackMediaNilIsNoop(t *testing.T) {
	store := &mockEntryStore{}
	ledger := NewLedger(store)

	err := ledger.TrackMedia(context.Background(), nil, time.Now())
	assert.NoError(t, err)
	store.AssertNotCalled(t, "Insert")
}

func TestTrackMediaForwardsFields(t *testing.T) {
	due := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	store := &mockEntryStore{}
	store.On("Insert", mock.Anything, mock.MatchedBy(func(e models.ExpiredMedia) bool {
		return e.RemoteID == "gymhub/avatars/u1" &&
			e.Kind == models.MediaKindImage &&
			e.SelfExpireAt.Equal(due)
	})).Return(nil)

	ledger := NewLedger(store)

	err := ledger.TrackMedia(context.Background(), &models.Media{
		URL:      "https://res.cloudinary.com/demo/gymhub/avatars/u1.jpg",
		RemoteID: "gymhub/avatars/u1",
		Kind:     models.MediaKindImage,
	}, due)
	require.NoError(t, err)
	store.AssertExpectations(t)
}
