package routes

import (
	"github.com/gin-gonic/gin"

	"mtambo/internal/controllers"
)

func TechnicianRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, ctl *controllers.TechnicianController) {
	technicians := r.Group("/technicians")
	technicians.Use(requireAuth)
	{
		technicians.GET("", ctl.List)
		technicians.POST("", ctl.Create)
		technicians.POST("/with-user", ctl.CreateWithUser)
		technicians.GET("/:id", ctl.Get)
		technicians.PATCH("/:id", ctl.Update)
		technicians.DELETE("/:id", ctl.Delete)
	}
}
