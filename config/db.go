package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"
)

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

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "hotel_booking")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// Migrate applies the schema in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branch{},
		&models.RoomType{},
		&models.Customer{},
		&models.Room{},
		&models.Booking{},
		&models.RoomNight{},
	)
}

// SeedDatabase ensures a minimal branch / room-type / room inventory exists.
func SeedDatabase(db *gorm.DB, zlog zerolog.Logger) {
	var branchCount int64
	db.Model(&models.Branch{}).Count(&branchCount)
	if branchCount == 0 {
		branch := models.Branch{Name: "Main Branch", Address: "1 Hotel Road"}
		if err := db.Create(&branch).Error; err != nil {
			zlog.Warn().Err(err).Msg("failed to seed default branch")
		} else {
			zlog.Info().Msg("default branch seeded")
		}
	}

	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: "Standard", Description: "Standard Room", MaxGuests: 2},
			{TypeName: "Superior", Description: "Superior Room", MaxGuests: 3},
			{TypeName: "Deluxe", Description: "Deluxe Room", MaxGuests: 4},
			{TypeName: "Connecting", Description: "Connecting Room", MaxGuests: 5},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			zlog.Warn().Err(err).Msg("failed to seed room types")
		} else {
			zlog.Info().Msg("room types seeded")
		}
	}

	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		var branch models.Branch
		var standard models.RoomType
		if err := db.First(&branch).Error; err != nil {
			return
		}
		if err := db.Where("type_name = ?", "Standard").First(&standard).Error; err != nil {
			return
		}
		rooms := []models.Room{
			{BranchID: branch.ID, RoomTypeID: standard.ID, RoomNumber: "101", Floor: "1", Price: 1200, MaxOccupancy: 2, Status: models.RoomAvailable},
			{BranchID: branch.ID, RoomTypeID: standard.ID, RoomNumber: "102", Floor: "1", Price: 1200, MaxOccupancy: 2, Status: models.RoomAvailable},
			{BranchID: branch.ID, RoomTypeID: standard.ID, RoomNumber: "201", Floor: "2", Price: 1500, MaxOccupancy: 3, Status: models.RoomAvailable},
		}
		if err := db.Create(&rooms).Error; err != nil {
			zlog.Warn().Err(err).Msg("failed to seed rooms")
		} else {
			zlog.Info().Msg("rooms seeded")
		}
	}
}

// Connect opens the MySQL database resolved from the environment, migrates the
// schema and seeds baseline data. The returned handle is passed explicitly to
// services; there is no package-level DB.
func Connect(zlog zerolog.Logger) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	SeedDatabase(db, zlog)
	return db, nil
}
