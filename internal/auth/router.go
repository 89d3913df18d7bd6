package auth

import (
	"github.com/gin-gonic/gin"

	"shopadmin/internal/shared/config"
)

// SetupAuthRoutes registers the login and refresh endpoints. The invalidation
// filter is global middleware and is installed by the application router.
func SetupAuthRoutes(engine *gin.Engine, h *Handler, paths config.AuthConfig) {
	engine.POST(paths.LoginPath, h.Login)
	engine.POST(paths.RefreshPath, h.Refresh)
}
