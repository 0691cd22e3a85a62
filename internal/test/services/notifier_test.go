package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decorize-backend/internal/models"
	"decorize-backend/internal/services"
	"decorize-backend/internal/test/storetest"
)

// flakyReader fails the first n polls, then delegates to the store.
type flakyReader struct {
	mu       sync.Mutex
	failures int
	store    *storetest.MemoryStore
}

func (r *flakyReader) RoomStatuses(projectID uuid.UUID) ([]models.RoomStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("connection reset")
	}
	return r.store.RoomStatuses(projectID)
}

func receiveSnapshot(t *testing.T, updates <-chan []models.RoomStatus) []models.RoomStatus {
	t.Helper()
	select {
	case snapshot, open := <-updates:
		require.True(t, open, "channel closed before a snapshot arrived")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return nil
	}
}

func TestSubscribe_FirstSnapshotIsImmediate(t *testing.T) {
	f := newFixture(t, "living_room", "bedroom")

	_, err := f.service.GenerateRoom(context.Background(), f.userID, f.project.ID, input(f.rooms[0], "moderno"))
	require.NoError(t, err)

	// A long interval proves the first snapshot does not wait for a tick.
	notifier := services.NewStatusNotifier(f.store, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := notifier.Subscribe(ctx, f.project.ID)
	snapshot := receiveSnapshot(t, updates)

	require.Len(t, snapshot, 2)
	assert.Equal(t, models.RoomStatusCompleted, snapshot[0].Status)
	assert.Nil(t, snapshot[0].ErrorMessage)
	assert.Equal(t, models.RoomStatusPending, snapshot[1].Status)
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	f := newFixture(t, "living_room")

	notifier := services.NewStatusNotifier(f.store, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	updates := notifier.Subscribe(ctx, f.project.ID)
	receiveSnapshot(t, updates)
	cancel()

	// Drain until the channel closes; cancellation must end the stream.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-updates:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("channel was not closed after cancellation")
		}
	}
}

func TestSubscribe_NoSnapshotAfterCancellation(t *testing.T) {
	f := newFixture(t, "living_room")

	notifier := services.NewStatusNotifier(f.store, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A receiver that is ready the moment the subscription starts must
	// still see only the close, never a late snapshot.
	updates := notifier.Subscribe(ctx, f.project.ID)
	select {
	case snapshot, open := <-updates:
		assert.False(t, open, "received a snapshot after cancellation: %v", snapshot)
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed after cancellation")
	}
}

func TestSubscribe_PollErrorSkipsRound(t *testing.T) {
	f := newFixture(t, "living_room")
	reader := &flakyReader{failures: 2, store: f.store}

	notifier := services.NewStatusNotifier(reader, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := notifier.Subscribe(ctx, f.project.ID)

	// The first polls fail and are skipped; the subscription survives and
	// delivers once the store recovers.
	snapshot := receiveSnapshot(t, updates)
	require.Len(t, snapshot, 1)
	assert.Equal(t, models.RoomStatusPending, snapshot[0].Status)
}

func TestSubscribe_ErrorMessageTravelsWithSnapshot(t *testing.T) {
	f := newFixture(t, "living_room")
	f.generator.Err = errors.New("model overloaded")

	_, err := f.service.GenerateRoom(context.Background(), f.userID, f.project.ID, input(f.rooms[0], "moderno"))
	require.Error(t, err)

	notifier := services.NewStatusNotifier(f.store, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot := receiveSnapshot(t, notifier.Subscribe(ctx, f.project.ID))
	require.Len(t, snapshot, 1)
	assert.Equal(t, models.RoomStatusError, snapshot[0].Status)
	require.NotNil(t, snapshot[0].ErrorMessage)
	assert.Contains(t, *snapshot[0].ErrorMessage, "model overloaded")
}
