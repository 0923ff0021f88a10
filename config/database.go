package config

import (
	"fmt"

	"github.com/kerjalink/kerjapay/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	if err := MigrateModels(DB); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}

// MigrateModels runs the schema migration for every model owned by this
// service. Shared with tests that run against an in-memory database.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Worker{},
		&models.Merchant{},
		&models.Booking{},
		&models.Review{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.PaymentTransaction{},
		&models.PayoutRequest{},
		&models.BankAccount{},
		&models.ReliabilityScoreHistory{},
		&models.SocialPost{},
	)
}
