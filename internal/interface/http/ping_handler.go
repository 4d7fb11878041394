package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-user-service/pkg/response"
)

type PingHandler struct {
	Service string
}

func NewPingHandler(service string) *PingHandler {
	return &PingHandler{Service: service}
}

func (h *PingHandler) Ping(c *gin.Context) {
	response.OK(c, http.StatusOK, gin.H{
		"service": h.Service,
		"status":  "ok",
		"time":    time.Now().UTC(),
	}, "pong")
}
