package config

import (
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"crankslist/models"
)

// SeedBikeTypes inserts the reference categories consumed by the filter
// engine and the submission form. Existing rows are left untouched.
func SeedBikeTypes(db *gorm.DB) {
	types := []models.BikeType{
		{Name: "road", SortOrder: 1},
		{Name: "mountain", SortOrder: 2},
		{Name: "hybrid", SortOrder: 3},
		{Name: "touring", SortOrder: 4},
		{Name: "gravel", SortOrder: 5},
		{Name: "electric", SortOrder: 6},
		{Name: "bmx", SortOrder: 7},
		{Name: "kids", SortOrder: 8},
	}

	for _, t := range types {
		var existing models.BikeType
		err := db.Where("name = ?", t.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&t).Error; err != nil {
				log.Printf("Failed to seed bike type %s: %v", t.Name, err)
			}
		}
	}
}

// SeedAdmin promotes the account named in ADMIN_EMAIL to the admins table.
// Without the variable, or before that user signs up, this is a no-op.
func SeedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		return
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to look up admin account %s: %v", email, err)
		}
		return
	}

	var admin models.Admin
	err := db.Where("user_id = ?", user.ID).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&models.Admin{UserID: user.ID}).Error; err != nil {
			log.Printf("Failed to seed admin %s: %v", email, err)
		} else {
			log.Printf("Admin seeded: %s (user ID: %d)", email, user.ID)
		}
	}
}
