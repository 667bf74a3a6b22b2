package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a failed operation to a response. Business-rule
// failures keep their code so clients can branch on kind; everything else is
// an opaque internal error.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var derr *model.DomainError
	if errors.As(err, &derr) {
		writeError(w, domainStatus(derr.Code), derr.Code, derr.Message, logger)
		return
	}
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// domainStatus maps a domain error code to an HTTP status.
func domainStatus(code string) int {
	switch code {
	case model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeOutOfStock, model.ErrCodeQuantityLimit, model.ErrCodeUnavailableSelected:
		return http.StatusConflict
	case model.ErrCodeMutationInFlight:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
