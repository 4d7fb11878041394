package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/restaurant-user-service/internal/interface/middleware"
)

// Guard is the middleware chain for Basic-auth protected routes: a per-IP
// limit before authentication, then a per-username limit after it.
type Guard struct {
	Auth      gin.HandlerFunc
	Redis     *redis.Client
	Window    time.Duration
	PerIP     int
	PerUser   int
	LoginRate int
}

func (g Guard) Protect(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	grp := rg.Group(path)
	grp.Use(
		middleware.RateLimit(g.Redis, g.PerIP, g.Window, middleware.KeyByIP(), nil),
		g.Auth,
		middleware.RateLimit(g.Redis, g.PerUser, g.Window, middleware.KeyByUsername(), nil),
	)
	return grp
}

// Limit returns a per-IP, per-route limiter.
func (g Guard) Limit(max int, allow middleware.AllowFunc) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, g.Window, middleware.KeyByIPAndPath(), allow)
}
