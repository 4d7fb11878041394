package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/pkg/response"
)

type AddressHandler struct {
	Svc    *userapp.AddressService
	Logger *logrus.Logger
}

func NewAddressHandler(svc *userapp.AddressService, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{Svc: svc, Logger: logger}
}

func (h *AddressHandler) GetByUser(c *gin.Context) {
	var p userIDParam
	if err := c.ShouldBindUri(&p); err != nil {
		writeBindError(c, err)
		return
	}
	a, found, err := h.Svc.GetAddressByUserID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !found {
		response.Abort(c, http.StatusNotFound, "address not found", nil)
		return
	}
	response.OK(c, http.StatusOK, a, "address")
}

func (h *AddressHandler) UpdateByUser(c *gin.Context) {
	var p userIDParam
	if err := c.ShouldBindUri(&p); err != nil {
		writeBindError(c, err)
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	a, err := h.Svc.UpdateAddressByUserID(c.Request.Context(), p.UserID, req.toInput())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, a, "address updated")
}
