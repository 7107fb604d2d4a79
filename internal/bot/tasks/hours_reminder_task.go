package tasks

import (
	"context"
	"fmt"
	"time"
)

// newHoursReminderTask creates the scheduled task that runs one full
// compliance cycle. Data-fetch failures surface as the task error (logged
// by the scheduler, cycle skipped, next firing is the retry); delivery
// failures are already recorded inside the run outcome and only logged.
func newHoursReminderTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "hours_reminder")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled hours reminder run...")
		startTime := time.Now()

		outcome, err := deps.Runner.Run(ctx)
		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Hours reminder run failed, no reminder sent this cycle",
				"error", err, "duration", duration)
			return fmt.Errorf("hours reminder run failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled hours reminder run completed",
			"run_id", outcome.RunID,
			"users", outcome.Users,
			"unmatched", outcome.Unmatched,
			"delivery_failed", outcome.DeliveryFailed(),
			"duration", duration)
		return nil
	}
}
