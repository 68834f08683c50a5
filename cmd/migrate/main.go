package main

import (
	"log"

	"school-mgmt-be/internal/config"
	"school-mgmt-be/internal/model"
	"school-mgmt-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.DBConnectionString)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Panicf("Failed to create uuid extension: %v", err)
	}

	err = db.AutoMigrate(
		&model.Tenant{},
		&model.Plan{},
		&model.Subscription{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Activity{},
	)
	if err != nil {
		log.Panicf("Migration failed: %v", err)
	}

	color.Green("✅ Migration complete")
}
