package database

import (
	"fmt"

	"listing-market/internal/logger"
	"listing-market/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Log.Info("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Core entities first: listings reference users and properties
	coreModels := []interface{}{
		&models.User{},
		&models.Property{},
		&models.Listing{},
	}

	for _, model := range coreModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Log.Warnf("Migration issue for %T: %v", model, err)
		}
	}

	// Wizard and billing support tables
	supportModels := []interface{}{
		&models.ListingDraft{},
		&models.PaymentEvent{},
		&models.Moderator{},
	}

	for _, model := range supportModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Log.Warnf("Migration issue for %T: %v", model, err)
		}
	}

	logger.Log.Info("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
