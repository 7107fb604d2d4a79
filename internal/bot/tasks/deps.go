// Package tasks implements the scheduled tasks of the hours reminder
// service, with their dependencies and registration mechanism.
package tasks

import (
	"log/slog"

	"hoursbot/internal/report"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Runner *report.Runner
}
