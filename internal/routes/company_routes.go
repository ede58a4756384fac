package routes

import (
	"github.com/gin-gonic/gin"

	"mtambo/internal/controllers"
)

func CompanyRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, ctl *controllers.CompanyController) {
	companies := r.Group("/companies")
	companies.Use(requireAuth)
	{
		companies.POST("", ctl.Create)
		companies.GET("", ctl.List)
		companies.GET("/by-email", ctl.ByEmail)
		companies.GET("/:id", ctl.Get)
		companies.PATCH("/:id", ctl.Update)
		companies.DELETE("/:id", ctl.Delete)

		companies.GET("/:id/technicians", ctl.Technicians)
		companies.POST("/:id/technicians", ctl.AddTechnician)
		companies.DELETE("/:id/technicians", ctl.RemoveTechnician)
		companies.POST("/:id/technicians/new", ctl.CreateTechnician)
	}
}
