package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking-backend/config"
	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps the shared in-memory database visible to every
	// transaction, including the ones racing in the concurrency tests.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

type fixture struct {
	Branch   models.Branch
	RoomType models.RoomType
	Room     models.Room
	Customer models.Customer
}

func seedInventory(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		Branch:   models.Branch{Name: "Main Branch", Address: "1 Hotel Road"},
		RoomType: models.RoomType{TypeName: "Standard", Description: "Standard Room", MaxGuests: 2},
	}
	require.NoError(t, db.Create(&f.Branch).Error)
	require.NoError(t, db.Create(&f.RoomType).Error)

	f.Room = models.Room{
		BranchID:     f.Branch.ID,
		RoomTypeID:   f.RoomType.ID,
		RoomNumber:   "101",
		Floor:        "1",
		Price:        1200,
		MaxOccupancy: 2,
		Status:       models.RoomAvailable,
	}
	require.NoError(t, db.Create(&f.Room).Error)

	f.Customer = models.Customer{FullName: "Ada Guest", Email: "ada@example.com"}
	require.NoError(t, db.Create(&f.Customer).Error)

	return f
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

// insertBooking writes a booking row directly, bypassing the writer, for
// availability-query tests.
func insertBooking(t *testing.T, db *gorm.DB, f fixture, status models.BookingStatus, checkIn, checkOut string) models.Booking {
	t.Helper()

	ci := day(t, checkIn)
	co := day(t, checkOut)
	b := models.Booking{
		ReferenceCode: utils.NewBookingReference(),
		BranchID:      f.Branch.ID,
		RoomID:        f.Room.ID,
		CustomerID:    f.Customer.ID,
		Status:        status,
		CheckIn:       ci,
		CheckOut:      co,
		Nights:        models.NightsBetween(ci, co),
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}
