// Package server exposes the HTTP invocation boundary: a manual run trigger
// and a health check.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hoursbot/internal/report"
)

// RunTrigger is the slice of the runner the HTTP boundary needs.
type RunTrigger interface {
	Run(ctx context.Context) (*report.Outcome, error)
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	runner RunTrigger
	log    *slog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(runner RunTrigger, log *slog.Logger) *Handlers {
	return &Handlers{
		runner: runner,
		log:    log.With("component", "http_handlers"),
	}
}

// TriggerRunHandler handles POST /api/v1/run. The trigger contract is a
// benign ack: every outcome, including internal failure, answers 200 so the
// caller never retries a cycle on its own. The body says what actually
// happened.
func (h *Handlers) TriggerRunHandler(c *gin.Context) {
	outcome, err := h.runner.Run(c.Request.Context())
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "Triggered run failed, cycle skipped", "error", err)
		c.JSON(http.StatusOK, gin.H{
			"status": "skipped",
			"reason": err.Error(),
		})
		return
	}

	audiences := make(gin.H, len(outcome.Audiences))
	for audience, res := range outcome.Audiences {
		entry := gin.H{
			"reminded": res.Reminded,
			"channels": res.Channels,
		}
		if res.SendErr != nil {
			entry["send_error"] = res.SendErr.Error()
		}
		audiences[string(audience)] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"run_id":    outcome.RunID,
		"from":      outcome.Window.FromDate(),
		"to":        outcome.Window.ToDate(),
		"users":     outcome.Users,
		"unmatched": outcome.Unmatched,
		"audiences": audiences,
	})
}
