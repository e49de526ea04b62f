package models

import (
	"time"

	"github.com/lib/pq"
)

type Bike struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	SellerEmail string `gorm:"size:190;not null" json:"-"` // denormalized, immutable after create; exposed masked only

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Price       int    `gorm:"not null" json:"price"` // whole currency units
	Currency    string `gorm:"size:3;default:'USD'" json:"currency"`
	BikeType    string `gorm:"size:50;index" json:"bike_type"` // road, mountain, touring, ...
	Condition   string `gorm:"size:20" json:"condition"`       // excellent, good, fair, needs work

	Location  string   `gorm:"size:255" json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Brand *string `gorm:"size:100" json:"brand,omitempty"`
	Size  *string `gorm:"size:50" json:"size,omitempty"`
	Year  *int    `json:"year,omitempty"`

	Images pq.StringArray `gorm:"type:text[]" json:"images"` // at most 5

	IsSold    bool      `gorm:"default:false;index" json:"is_sold"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
