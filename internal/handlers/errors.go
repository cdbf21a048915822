package handlers

import (
	"net/http"

	"clinic-scheduling-server/internal/apperrors"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err *apperrors.Error) int {
	switch err.Kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindValidation, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		if err.Reference {
			return http.StatusBadRequest
		}
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a failure envelope. Unexpected errors are
// logged and answered with a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	appErr := apperrors.From(err)
	status := statusFor(appErr)

	if status == http.StatusInternalServerError {
		log.WithRequestID(middleware.GetRequestID(c)).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("Unexpected error")
	}

	utils.Error(c, status, appErr.Message)
}

// parseID reads a UUID path or query value.
func parseID(value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", apperrors.ErrInvalidID
	}
	return id.String(), nil
}

// pathID reads the :id route parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, log *logger.Logger) (string, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, log, err)
		return "", false
	}
	return id, true
}
