package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RunIDKey ctxKey = "run_id"

// WithRunID tags ctx with the id of the sorting run it belongs to.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

func RunID(ctx context.Context) string {
	runID, _ := ctx.Value(RunIDKey).(string)
	return runID
}

// Time logs how long the operation name took once the returned func is called
// with a pointer to the operation's error.
func Time(ctx context.Context, logger *zap.Logger, name string) func(errp *error) {
	start := time.Now()

	runID := RunID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Warn("operation failed",
				zap.String("run_id", runID),
				zap.String("op", name),
				zap.Duration("dur", dur),
				zap.Error(*errp),
			)
			return
		}
		logger.Debug("operation finished",
			zap.String("run_id", runID),
			zap.String("op", name),
			zap.Duration("dur", dur),
		)
	}
}
