package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bossppp/cozy-hotel-bookings/config"
	"github.com/Bossppp/cozy-hotel-bookings/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// a second pooled connection would see its own empty in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Name:     name,
		Tel:      "0801234567",
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedHotel(t *testing.T, db *gorm.DB, name string) models.Hotel {
	t.Helper()

	hotel := models.Hotel{
		Name: name,
		Address: models.Address{
			BuildingNumber: "123", Street: "Sukhumvit Road",
			District: "Watthana", Province: "Bangkok", PostalCode: "10110",
		},
		Tel: "02-123-4567",
	}
	if err := db.Create(&hotel).Error; err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	return hotel
}

// day builds a UTC midnight timestamp offset from the fixed test clock.
func day(base time.Time, offset int) time.Time {
	return base.AddDate(0, 0, offset)
}
