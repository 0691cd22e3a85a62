package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"decorize-backend/internal/models"
)

// RoomStatusReader is the read side of the record store the notifier
// polls.
type RoomStatusReader interface {
	RoomStatuses(projectID uuid.UUID) ([]models.RoomStatus, error)
}

// StatusNotifier streams room-status snapshots for a project at a fixed
// interval. Polling the record store is deliberately simple; callers
// only see Subscribe, so a push-based change feed could replace the
// loop without touching them.
type StatusNotifier struct {
	records  RoomStatusReader
	interval time.Duration
}

func NewStatusNotifier(records RoomStatusReader, interval time.Duration) *StatusNotifier {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &StatusNotifier{
		records:  records,
		interval: interval,
	}
}

// Subscribe returns a channel of full room-status snapshots for the
// project. The first snapshot is sent immediately, so a subscriber that
// connects after generation finished still sees the final state without
// waiting out an interval. The channel is closed when ctx is cancelled;
// no message is sent after that. A failed poll is logged and that round
// skipped rather than ending the subscription.
func (n *StatusNotifier) Subscribe(ctx context.Context, projectID uuid.UUID) <-chan []models.RoomStatus {
	updates := make(chan []models.RoomStatus)

	go func() {
		defer close(updates)

		if !n.pushSnapshot(ctx, projectID, updates) {
			return
		}

		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !n.pushSnapshot(ctx, projectID, updates) {
					return
				}
			}
		}
	}()

	return updates
}

// pushSnapshot reads and delivers one snapshot. It returns false only
// when the subscription is cancelled.
func (n *StatusNotifier) pushSnapshot(ctx context.Context, projectID uuid.UUID, updates chan<- []models.RoomStatus) bool {
	snapshot, err := n.records.RoomStatuses(projectID)
	if err != nil {
		log.Printf("status notifier: poll failed for project %s: %v", projectID, err)
		return true
	}

	// A select with both cases ready picks at random, so check
	// cancellation first: nothing may be delivered after it.
	if ctx.Err() != nil {
		return false
	}

	select {
	case updates <- snapshot:
		return true
	case <-ctx.Done():
		return false
	}
}
