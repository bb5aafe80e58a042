package jobs

import (
	"context"
	"time"

	"hostelhub-backend/internal/logger"
)

// ExpireAgreements moves active agreements whose end date has passed to
// expired, completing the booking behind each one and releasing its room.
func (jr *JobRunner) ExpireAgreements() {
	jr.runWithRecovery("ExpireAgreements", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		agreements, err := jr.agreements.ListActiveEndingBefore(ctx, today)
		if err != nil {
			logger.Error("Failed to list expiring agreements", "error", err)
			return
		}

		count := 0
		for _, agr := range agreements {
			if _, err := jr.coordinator.ExpireAgreement(ctx, agr.ID); err != nil {
				logger.Error("Failed to expire agreement",
					"agreement_id", agr.ID, "agreement_number", agr.AgreementNumber, "error", err)
				continue
			}
			count++
		}

		logger.Info("Expired agreements", "count", count, "candidates", len(agreements))
	})
}
