package database

import (
	"fmt"
	"log"

	"lead-gateway/internal/config"
	"lead-gateway/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the configured database and runs migrations. DB_DRIVER selects
// postgres or sqlite; sqlite is the default for local development.
func Init(cfg *config.Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	default:
		db, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database (%s): %v", cfg.DBDriver, err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	log.Printf("Database initialized (%s)", cfg.DBDriver)
	return db
}

// Migrate runs the schema migration for all gateway tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Webhook{},
		&models.WebhookEvent{},
		&models.List{},
		&models.ListContact{},
		&models.Lead{},
		&models.Campaign{},
		&models.TestLead{},
	)
}
