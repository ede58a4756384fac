package routes

import (
	"github.com/gin-gonic/gin"

	"mtambo/internal/controllers"
)

func AuthRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, ctl *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", ctl.Signup)
		auth.POST("/login", ctl.Login)
		auth.POST("/refresh", requireAuth, ctl.Refresh)
		auth.POST("/logout", requireAuth, ctl.Logout)
		auth.POST("/change-password", requireAuth, ctl.ChangePassword)
	}
}
