package models

import (
	"time"
)

type Message struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	BikeID *uint `gorm:"index" json:"bike_id"`

	SenderName  string `gorm:"size:100;not null" json:"sender_name"`
	SenderEmail string `gorm:"size:190;not null" json:"sender_email"`

	// Always the listing's seller email, resolved server-side at send time.
	RecipientEmail string `gorm:"size:190;not null;index" json:"recipient_email"`

	Subject string `gorm:"size:255" json:"subject"`
	Body    string `gorm:"type:text;not null" json:"message"`

	IsRead bool `gorm:"not null;index" json:"is_read"` // false->true only

	CreatedAt time.Time `json:"created_at"`

	Bike *Bike `gorm:"foreignKey:BikeID" json:"bike,omitempty"`
}
