// Package ledger is the single authority over room type capacity counters.
// Every mutation of available_rooms in the system funnels through Reserve
// and Release; no other component writes the counters.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/repository"
)

// ErrLockTimeout is returned when the per-room-type lock could not be
// acquired within the configured wait. Retryable by the caller.
var ErrLockTimeout = errors.New("timed out waiting for room type lock")

const defaultLockWait = 5 * time.Second

type Ledger struct {
	rooms    repository.RoomTypeRepository
	locks    *keyedMutex
	lockWait time.Duration
}

// Availability is a point-in-time snapshot of a room type's counters. It
// carries no freshness guarantee; callers must not use it as a substitute
// for Reserve.
type Availability struct {
	Total     int32 `json:"total"`
	Available int32 `json:"available"`
}

func New(rooms repository.RoomTypeRepository) *Ledger {
	return NewWithLockWait(rooms, defaultLockWait)
}

func NewWithLockWait(rooms repository.RoomTypeRepository, lockWait time.Duration) *Ledger {
	return &Ledger{
		rooms:    rooms,
		locks:    newKeyedMutex(),
		lockWait: lockWait,
	}
}

// Reserve atomically takes count rooms of the given type, or takes nothing.
// Two callers racing for the last room resolve deterministically: one wins,
// the other gets domain.ErrOutOfCapacity. The wait for the per-room-type
// lock is bounded so a confirmation burst can never block indefinitely.
func (l *Ledger) Reserve(ctx context.Context, roomTypeID, count int32) error {
	if count < 1 {
		return fmt.Errorf("reserve count must be >= 1, got %d", count)
	}

	unlock, err := l.locks.lock(ctx, roomTypeID, l.lockWait)
	if err != nil {
		return err
	}
	defer unlock()

	if err := l.rooms.Reserve(ctx, roomTypeID, count); err != nil {
		if errors.Is(err, domain.ErrOutOfCapacity) {
			logger.DebugContext(ctx, "Reserve rejected, no capacity", "room_type_id", roomTypeID, "count", count)
		}
		return err
	}
	logger.DebugContext(ctx, "Capacity reserved", "room_type_id", roomTypeID, "count", count)
	return nil
}

// Release returns count rooms to the pool. A release that would push the
// available count above the total is a programming-error signal: it is
// logged loudly, the counters stay unchanged, and domain.ErrInvalidRelease
// is returned.
func (l *Ledger) Release(ctx context.Context, roomTypeID, count int32) error {
	if count < 1 {
		return fmt.Errorf("release count must be >= 1, got %d", count)
	}

	unlock, err := l.locks.lock(ctx, roomTypeID, l.lockWait)
	if err != nil {
		return err
	}
	defer unlock()

	if err := l.rooms.Release(ctx, roomTypeID, count); err != nil {
		if errors.Is(err, domain.ErrInvalidRelease) {
			logger.ErrorContext(ctx, "Invalid release, counters left unchanged",
				"room_type_id", roomTypeID, "count", count)
		}
		return err
	}
	logger.DebugContext(ctx, "Capacity released", "room_type_id", roomTypeID, "count", count)
	return nil
}

// Availability returns a read-only snapshot without touching the lock.
func (l *Ledger) Availability(ctx context.Context, roomTypeID int32) (Availability, error) {
	rt, err := l.rooms.GetByID(ctx, roomTypeID)
	if err != nil {
		return Availability{}, err
	}
	return Availability{Total: rt.TotalRooms, Available: rt.AvailableRooms}, nil
}
