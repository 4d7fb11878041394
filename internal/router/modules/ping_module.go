package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/restaurant-user-service/internal/interface/http"
	"github.com/oksasatya/restaurant-user-service/internal/interface/middleware"
)

// PingModule serves the public health check. Private addresses skip the limit.
type PingModule struct {
	Handler *handlers.PingHandler
	Guard   Guard
	Rate    int
}

func NewPingModule(h *handlers.PingHandler, g Guard, rate int) *PingModule {
	return &PingModule{Handler: h, Guard: g, Rate: rate}
}

func (m *PingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", m.Guard.Limit(m.Rate, middleware.AllowPrivateIP()), m.Handler.Ping)
}
