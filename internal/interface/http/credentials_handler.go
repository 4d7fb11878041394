package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/pkg/response"
)

type CredentialsHandler struct {
	Svc    *userapp.CredentialsService
	Logger *logrus.Logger
}

func NewCredentialsHandler(svc *userapp.CredentialsService, logger *logrus.Logger) *CredentialsHandler {
	return &CredentialsHandler{Svc: svc, Logger: logger}
}

func (h *CredentialsHandler) UpdateUsername(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		writeBindError(c, err)
		return
	}
	var req updateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if err := h.Svc.UpdateUsername(c.Request.Context(), p.ID, req.Username); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"updated": "username"}, "username updated")
}

func (h *CredentialsHandler) UpdatePassword(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		writeBindError(c, err)
		return
	}
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if err := h.Svc.UpdatePassword(c.Request.Context(), p.ID, req.Password); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"updated": "password"}, "password updated")
}

// Login only checks the pair; no session or token is issued.
func (h *CredentialsHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	ok, err := h.Svc.VerifyLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"authenticated": true}, "login successful")
}
