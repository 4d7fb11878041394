package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
	"github.com/oksasatya/restaurant-user-service/pkg/response"
	"github.com/oksasatya/restaurant-user-service/pkg/validation"
)

// statusByKind is the only place error kinds become HTTP statuses.
var statusByKind = map[apperror.Kind]int{
	apperror.KindInvalidInput:            http.StatusBadRequest,
	apperror.KindNotFound:                http.StatusNotFound,
	apperror.KindCredentialsMissing:      http.StatusNotFound,
	apperror.KindDuplicateEmail:          http.StatusConflict,
	apperror.KindDuplicateIdentification: http.StatusConflict,
	apperror.KindDuplicateUsername:       http.StatusConflict,
	apperror.KindConflict:                http.StatusConflict,
	apperror.KindInternal:                http.StatusInternalServerError,
}

func StatusOf(err error) int {
	if status, ok := statusByKind[apperror.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError renders a service error. Internal failures are logged with the
// request id and answered with a generic message.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Abort(c, status, "internal server error", nil)
		return
	}
	kind := apperror.KindOf(err)
	response.Abort(c, status, apperror.MessageOf(err), gin.H{"kind": kind.String()})
}

func writeBindError(c *gin.Context, err error) {
	response.Abort(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
