package database

import (
	"fmt"
	"log"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the submission log database and migrates its schema.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}

	log.Println("Database connection established")

	// Migration: creates the submission log table on first run
	log.Println("Running Migrations...")
	if err := db.AutoMigrate(&models.SubmissionRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}
