package models

type BikeType struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;not null;unique" json:"name"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}
