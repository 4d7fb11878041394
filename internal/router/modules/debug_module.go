package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

// DebugModule exposes expvar metrics to authenticated callers.
type DebugModule struct {
	Guard Guard
}

func NewDebugModule(g Guard) *DebugModule { return &DebugModule{Guard: g} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	grp := m.Guard.Protect(rg, "/debug")
	grp.GET("/vars", gin.WrapH(expvar.Handler()))
}
