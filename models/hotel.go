package models

import (
	"time"

	"gorm.io/gorm"
)

// Address is a flat value object embedded into Hotel.
type Address struct {
	BuildingNumber string `gorm:"size:50" json:"building_number"`
	Street         string `gorm:"size:255" json:"street"`
	District       string `gorm:"size:150" json:"district"`
	Province       string `gorm:"size:150" json:"province"`
	PostalCode     string `gorm:"size:10;column:postalcode" json:"postalcode"`
}

type Hotel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255" json:"name"`
	Address   Address        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Tel       string         `gorm:"size:50" json:"tel"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
