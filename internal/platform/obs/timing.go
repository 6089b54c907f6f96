package obs

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// RequestID returns the request id carried on the context, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithRequestID stores a request id on the context for downstream logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Time logs an operation's duration when the returned func runs.
// Use as: defer obs.Time(ctx, logger, "op.name")(&err)
func Time(ctx context.Context, logger *slog.Logger, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Error("operation failed",
				"req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "error", *errp)
			return
		}
		logger.Debug("operation complete",
			"req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
