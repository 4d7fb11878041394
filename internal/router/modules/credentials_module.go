package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/restaurant-user-service/internal/interface/http"
)

// CredentialsModule wires login (public, rate limited per IP) and the
// protected username/password updates.
type CredentialsModule struct {
	Handler *handlers.CredentialsHandler
	Guard   Guard
}

func NewCredentialsModule(h *handlers.CredentialsHandler, g Guard) *CredentialsModule {
	return &CredentialsModule{Handler: h, Guard: g}
}

func (m *CredentialsModule) Register(rg *gin.RouterGroup) {
	rg.POST("/credentials/login", m.Guard.Limit(m.Guard.LoginRate, nil), m.Handler.Login)

	creds := m.Guard.Protect(rg, "/credentials")
	{
		creds.PUT("/:id/username", m.Handler.UpdateUsername)
		creds.PUT("/:id/password", m.Handler.UpdatePassword)
	}
}
