package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-user-service/pkg/response"
)

// CredentialVerifier checks a username/password pair against stored credentials.
type CredentialVerifier interface {
	VerifyLogin(ctx context.Context, username, password string) (bool, error)
}

// BasicAuth validates HTTP Basic credentials on every request.
// It sets username in the Gin context on success.
func BasicAuth(verifier CredentialVerifier, realm string, logger *logrus.Logger) gin.HandlerFunc {
	if realm == "" {
		realm = "Authorization Required"
	}
	challenge := `Basic realm="` + realm + `", charset="UTF-8"`

	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", challenge)
			response.Abort(c, http.StatusUnauthorized, "missing credentials", nil)
			return
		}

		valid, err := verifier.VerifyLogin(c.Request.Context(), username, password)
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("credential check failed")
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		if !valid {
			c.Header("WWW-Authenticate", challenge)
			response.Abort(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}

		c.Set("username", username)
		c.Next()
	}
}
