package main

import (
	"log"
	"net/http"

	logrus "github.com/sirupsen/logrus"

	"mtambo/internal/config"
	"mtambo/internal/logger"
	"mtambo/internal/middleware"
	"mtambo/internal/routes"
	"mtambo/internal/services"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	cfg := config.Load()

	// Connect to the database and migrate the schema
	db := config.InitDB(cfg)

	// Seed the bootstrap superuser when configured
	if cfg.BootstrapEmail != "" {
		identity := services.NewIdentityService(db)
		_, err := identity.CreateSuperuser(services.CreateSuperuserInput{
			Email:       cfg.BootstrapEmail,
			PhoneNumber: cfg.BootstrapPhone,
			Password:    cfg.BootstrapPassword,
			FirstName:   "System",
			LastName:    "Admin",
		})
		if err != nil {
			if _, ok := services.AsValidation(err); ok {
				logrus.Info("bootstrap superuser already present, skipping seed")
			} else {
				log.Fatalf("could not seed bootstrap superuser: %v", err)
			}
		}
	}

	r := routes.SetupRouter(db, cfg)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Printf("🚀 Server running at %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}
