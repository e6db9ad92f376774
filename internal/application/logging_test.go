package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/humia/planning/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLogger_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	var base, scoped bytes.Buffer
	baseLogger := slog.New(slog.NewTextHandler(&base, nil))
	ctxLogger := slog.New(slog.NewTextHandler(&scoped, nil))
	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)

	serviceLogger(ctx, baseLogger, "PlanningService", "CreateSession", "owner_id", "o1").Info("hello")

	if base.Len() != 0 {
		t.Fatalf("expected base logger to stay silent, got %q", base.String())
	}
	line := scoped.String()
	for _, want := range []string{"service=PlanningService", "operation=CreateSession", "owner_id=o1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		"":                    nil,
		"validation":          newValidationMessage("bad"),
		"reference":           &ReferenceError{Resource: "trainer", Message: "Formateur introuvable"},
		"unauthorized":        fmt.Errorf("wrap: %w", ErrUnauthorized),
		"forbidden":           ErrForbidden,
		"not_found":           ErrNotFound,
		"already_exists":      ErrAlreadyExists,
		"invalid_credentials": ErrInvalidCredentials,
		"account_disabled":    ErrAccountDisabled,
		"session_expired":     ErrSessionExpired,
		"session_revoked":     ErrSessionRevoked,
		"unexpected":          errors.New("disk full"),
	}
	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", err, got, want)
		}
	}
}
