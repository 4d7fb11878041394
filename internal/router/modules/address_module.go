package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/restaurant-user-service/internal/interface/http"
)

type AddressModule struct {
	Handler *handlers.AddressHandler
	Guard   Guard
}

func NewAddressModule(h *handlers.AddressHandler, g Guard) *AddressModule {
	return &AddressModule{Handler: h, Guard: g}
}

func (m *AddressModule) Register(rg *gin.RouterGroup) {
	addrs := m.Guard.Protect(rg, "/addresses")
	addrs.GET("/user/:userId", m.Handler.GetByUser)
	addrs.PUT("/user/:userId", m.Handler.UpdateByUser)
}
