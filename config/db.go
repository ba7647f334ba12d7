package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bossppp/cozy-hotel-bookings/models"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "cozy_hotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens MySQL, migrates the schema and runs the seed pass.
func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase(DB)
	return nil
}

// Migrate applies the schema in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.Session{},
		&models.Booking{},
	)
}

// SeedDatabase creates the default admin and a starter hotel set when the
// tables are empty.
func SeedDatabase(db *gorm.DB) {
	// ---------------- Admin ----------------
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		email := utils.EnvOrDefault("ADMIN_EMAIL", "admin@example.com")
		password := utils.EnvOrDefault("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.User{
				Name:     "Admin User",
				Tel:      "099-888-7777",
				Email:    email,
				Password: string(hash),
				Role:     models.RoleAdmin,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	// ---------------- Hotels ----------------
	var hotelCount int64
	db.Model(&models.Hotel{}).Count(&hotelCount)
	if hotelCount == 0 {
		hotels := []models.Hotel{
			{
				Name: "Grand Bangkok Hotel",
				Address: models.Address{
					BuildingNumber: "123", Street: "Sukhumvit Road",
					District: "Watthana", Province: "Bangkok", PostalCode: "10110",
				},
				Tel: "02-123-4567",
			},
			{
				Name: "Silom Suites",
				Address: models.Address{
					BuildingNumber: "456", Street: "Silom Road",
					District: "Bang Rak", Province: "Bangkok", PostalCode: "10500",
				},
				Tel: "02-987-6543",
			},
			{
				Name: "Pattaya Beach Resort",
				Address: models.Address{
					BuildingNumber: "789", Street: "Pattaya Beach Road",
					District: "Bang Lamung", Province: "Chonburi", PostalCode: "20150",
				},
				Tel: "038-111-2222",
			},
			{
				Name: "Nimman Boutique Hotel",
				Address: models.Address{
					BuildingNumber: "101", Street: "Nimman Road",
					District: "Suthep", Province: "Chiang Mai", PostalCode: "50200",
				},
				Tel: "053-444-5555",
			},
		}
		if err := db.Create(&hotels).Error; err != nil {
			log.Printf("warning: failed to seed hotels: %v", err)
		} else {
			log.Println("Hotels seeded")
		}
	}
}
