package main

import (
	"log"

	"coursepanel/backend/config"
	"coursepanel/backend/middleware"
	"coursepanel/backend/models"
	"coursepanel/backend/routes"
	"coursepanel/backend/services"
	"coursepanel/backend/store"
	"coursepanel/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Load stores, seed only when empty
	stores, err := store.NewRegistry(db, logger)
	if err != nil {
		log.Fatalf("Error loading stores: %v", err)
	}
	stores.Initialize(store.DefaultSeed())
	ensureAdmin(stores, cfg, logger)

	// Services
	integrity := services.NewIntegrityService(stores)
	search := services.NewSearchService(stores)
	backups, err := services.NewBackupService(stores, db, cfg.BackupLimit)
	if err != nil {
		log.Fatalf("Error initializing backup service: %v", err)
	}

	// Scheduled safety backups
	if cfg.BackupSchedule != "" {
		scheduler := cron.New()
		_, err = scheduler.AddFunc(cfg.BackupSchedule, func() {
			backup, err := backups.CreateBackup("scheduled backup")
			if err != nil {
				logger.Printf("scheduled backup failed: %v", err)
				return
			}
			if _, err := backups.SaveLocally(backup, "auto"); err != nil {
				logger.Printf("scheduled backup failed: %v", err)
				return
			}
			logger.Printf("scheduled backup saved (%d records)", backup.Metadata.TotalRecords)
		})
		if err != nil {
			log.Fatalf("Error scheduling backups: %v", err)
		}
		scheduler.Start()
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, stores, integrity, backups, search, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}

// ensureAdmin creates the bootstrap admin account on first start.
func ensureAdmin(stores *store.Registry, cfg *config.Config, logger *log.Logger) {
	if _, ok := stores.Users.FetchByEmail(cfg.AdminEmail); ok {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing admin password: %v", err)
	}

	id := stores.Users.Add(models.User{
		Email:        cfg.AdminEmail,
		Name:         "Administrator",
		Username:     "admin",
		PasswordHash: string(hashed),
		RoleID:       "1",
		RoleName:     "admin",
		IsActive:     true,
	})
	logger.Printf("created bootstrap admin user %s", id)
}
