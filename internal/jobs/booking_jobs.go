package jobs

import (
	"context"
	"time"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/logger"
)

// ExpireStalePendingBookings cancels pending bookings whose start date has
// already passed without the owner confirming them. No capacity is held at
// that point, so this stays inside the booking machine.
func (jr *JobRunner) ExpireStalePendingBookings() {
	jr.runWithRecovery("ExpireStalePendingBookings", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		stale, err := jr.bookings.ListStalePending(ctx, today)
		if err != nil {
			logger.Error("Failed to list stale pending bookings", "error", err)
			return
		}

		count := 0
		for i := range stale {
			b := &stale[i]
			b.Status = domain.BookingStatusCancelled
			b.LeaveReason = "start date passed without confirmation"
			if err := jr.bookings.Update(ctx, b); err != nil {
				logger.Error("Failed to cancel stale booking", "booking_id", b.ID, "error", err)
				continue
			}
			count++
		}

		logger.Info("Cancelled stale pending bookings", "count", count, "candidates", len(stale))
	})
}
