package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/humia/planning/internal/application"
)

const (
	msgUnauthorized     = "Unauthorized"
	msgForbidden        = "Accès refusé"
	msgInvalidBody      = "Requête invalide"
	msgInvalidRange     = "Paramètres de période invalides"
	msgInvalidLogin     = "Email ou mot de passe incorrect"
	msgUnexpected       = "Une erreur est survenue"
	msgNotFound         = "Ressource introuvable"
	msgConflict         = "Cette ressource existe déjà"
	msgStoreUnavailable = "Base de données indisponible"
)

var (
	errBadRequestBody = errors.New(msgInvalidBody)
	errInvalidRange   = errors.New(msgInvalidRange)
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError answers with {error: err.Error()}, or the default message of
// status when err is nil.
func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := err.Error(); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}
	r.writeJSON(ctx, w, status, errorResponse{Error: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgUnexpected})
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Error:  vErr.Error(),
			Fields: vErr.FieldErrors,
		})
		return
	}
	var refErr *application.ReferenceError
	if errors.As(err, &refErr) {
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: refErr.Message})
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials), errors.Is(err, application.ErrAccountDisabled):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgInvalidLogin})
	case isSessionError(err):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
	case errors.Is(err, application.ErrForbidden):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Error: msgForbidden})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: msgNotFound})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Error: msgConflict})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgUnexpected})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func isSessionError(err error) bool {
	return errors.Is(err, application.ErrUnauthorized) ||
		errors.Is(err, application.ErrSessionExpired) ||
		errors.Is(err, application.ErrSessionRevoked)
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return msgInvalidBody
	case http.StatusUnauthorized:
		return msgUnauthorized
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusConflict:
		return msgConflict
	case http.StatusServiceUnavailable:
		return msgStoreUnavailable
	default:
		return msgUnexpected
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type okResponse struct {
	OK bool `json:"ok"`
}
