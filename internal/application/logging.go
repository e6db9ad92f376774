package application

import (
	"cmp"
	"context"
	"errors"
	"log/slog"

	"github.com/humia/planning/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return cmp.Or(logger, slog.Default())
}

// serviceLogger scopes the request logger, when the context carries one, to
// a service operation.
func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := cmp.Or(logging.FromContext(ctx), base, slog.Default()).With("service", serviceName)
	if operation != "" {
		logger = logger.With("operation", operation)
	}
	return logger.With(attrs...)
}

// errorKinds is checked in order; the first match labels the error.
var errorKinds = []struct {
	target error
	kind   string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
	{ErrNotFound, "not_found"},
	{ErrAlreadyExists, "already_exists"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrAccountDisabled, "account_disabled"},
	{ErrSessionExpired, "session_expired"},
	{ErrSessionRevoked, "session_revoked"},
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}
	var rErr *ReferenceError
	if errors.As(err, &rErr) {
		return "reference"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return "unexpected"
}
