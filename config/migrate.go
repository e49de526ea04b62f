package config

import (
	"log"

	"gorm.io/gorm"

	"crankslist/models"
)

func Migrate(db *gorm.DB) error {
	// Migrate the schema
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.BikeType{},
		&models.Bike{},
		&models.Message{},
		&models.Admin{},
	)

	if err != nil {
		log.Printf("Failed to migrate database schema: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully...")

	// Ensure reference data is present even on normal migration
	SeedBikeTypes(db)

	return err
}
