package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/service"
)

// StartEscalationWorker runs the SLA sweep on a fixed interval until the
// context is cancelled.
func StartEscalationWorker(ctx context.Context, escalations *service.EscalationService, interval time.Duration, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				result, err := escalations.Sweep(ctx)
				if err != nil {
					logger.Error("escalation sweep failed", zap.Error(err))
					continue
				}
				if result.Escalated > 0 {
					logger.Info("escalation sweep complete",
						zap.Int("processed", result.Processed),
						zap.Int("escalated", result.Escalated),
					)
				}
			}
		}
	}()
}
