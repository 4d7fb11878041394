package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/restaurant-user-service/internal/interface/http"
)

// UserModule wires the user lifecycle routes. All of them require Basic auth.
//
//	POST   /api/users
//	GET    /api/users
//	GET    /api/users/search?name=
//	GET    /api/users/directory?q=&size=
//	GET    /api/users/:id
//	PUT    /api/users/:id
//	DELETE /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := m.Guard.Protect(rg, "/users")
	{
		users.POST("", m.Handler.Create)
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.SearchByName)
		users.GET("/directory", m.Handler.Directory)
		users.GET("/:id", m.Handler.Get)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
