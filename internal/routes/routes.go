package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mtambo/internal/config"
	"mtambo/internal/controllers"
	"mtambo/internal/middleware"
	"mtambo/internal/services"
)

// SetupRouter wires services, controllers and route groups onto one engine.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	controllers.RegisterValidators()

	identity := services.NewIdentityService(db)
	profiles := services.NewProfileFactory(db)
	accounts := services.NewAccountService(db, identity, profiles)
	companies := services.NewCompanyService(db, identity, profiles)
	technicians := services.NewTechnicianService(db, identity, profiles, companies)
	tokens := services.NewTokenService(db, cfg.JWTSecret, cfg.AccessExpiry, cfg.RefreshExpiry)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlogger.SetLogger())

	requireAuth := middleware.RequireAuth(db, tokens)

	AuthRoutes(r, requireAuth, controllers.NewAuthController(accounts, identity, tokens))
	UserRoutes(r, requireAuth, controllers.NewUserController(accounts))
	CompanyRoutes(r, requireAuth, controllers.NewCompanyController(companies))
	TechnicianRoutes(r, requireAuth, controllers.NewTechnicianController(technicians))

	return r
}
