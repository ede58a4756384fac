package routes

import (
	"github.com/gin-gonic/gin"

	"mtambo/internal/controllers"
)

func UserRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, ctl *controllers.UserController) {
	users := r.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("", ctl.List)
		users.GET("/:id", ctl.Get)
		users.PATCH("/:id", ctl.Update)
		users.DELETE("/:id", ctl.Delete)
	}
}
