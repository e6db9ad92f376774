package http

import (
	"cmp"
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return cmp.Or(logger, slog.Default())
}

// handlerLogger prefers the request-scoped logger installed by
// RequestLogger, so entries carry the request id.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handler, operation string, attrs ...any) *slog.Logger {
	logger := cmp.Or(LoggerFromContext(ctx), fallback, slog.Default()).With("handler", handler)
	if operation != "" {
		logger = logger.With("operation", operation)
	}
	return logger.With(attrs...)
}
