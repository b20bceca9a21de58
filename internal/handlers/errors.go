package handlers

import (
	"errors"
	"net/http"

	"taskmanager/internal/logger"
	"taskmanager/internal/service"

	"go.uber.org/zap"
)

// respondError maps a service failure onto a stable status+payload. A
// *service.BusinessError carries its own code; everything else is a
// generic server error with the details kept out of the response.
func respondError(w http.ResponseWriter, err error, operation string) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: business error",
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode, map[string]any{
			"error":   businessErr.Code,
			"message": businessErr.Message,
			"details": businessErr.Details,
		})
		return
	}

	logger.Error("HTTP: service error", err, zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, "internal server error")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
