package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking-backend/config"
	"hotel-booking-backend/controllers"
	"hotel-booking-backend/models"
	"hotel-booking-backend/routes"
	"hotel-booking-backend/services"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	bookingSvc := services.NewBookingService(db)
	availabilitySvc := services.NewAvailabilityService(db)
	roomSvc := services.NewRoomService(db)

	router := routes.SetupRouter(
		controllers.NewBookingController(bookingSvc, availabilitySvc),
		controllers.NewRoomController(roomSvc),
		zerolog.Nop(),
	)
	return router, db
}

func seedRoom(t *testing.T, db *gorm.DB) models.Room {
	t.Helper()
	branch := models.Branch{Name: "Main Branch"}
	require.NoError(t, db.Create(&branch).Error)
	rt := models.RoomType{TypeName: "Standard", MaxGuests: 2}
	require.NoError(t, db.Create(&rt).Error)
	room := models.Room{
		BranchID: branch.ID, RoomTypeID: rt.ID,
		RoomNumber: "101", Floor: "1", Price: 1200, MaxOccupancy: 2,
		Status: models.RoomAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAvailabilityEndpoint(t *testing.T) {
	router, db := newTestServer(t)
	seedRoom(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/bookings/availability", gin.H{
		"checkIn":  "2025-03-01",
		"checkOut": "2025-03-05",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Available int           `json:"available"`
		Rooms     []models.Room `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Available)
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, "101", resp.Rooms[0].RoomNumber)

	// Malformed interval.
	w = doJSON(t, router, http.MethodPost, "/api/bookings/availability", gin.H{
		"checkIn":  "2025-03-05",
		"checkOut": "2025-03-05",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", errCode(t, w))
}

func createBookingViaAPI(t *testing.T, router *gin.Engine, room models.Room, checkIn, checkOut string) uint {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/bookings", gin.H{
		"roomId":   room.ID,
		"checkIn":  checkIn,
		"checkOut": checkOut,
		"guest":    gin.H{"fullName": "Ada Guest", "email": "ada@example.com"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.Data.ID)
	return resp.Data.ID
}

func TestCreateBookingEndpoint(t *testing.T) {
	router, db := newTestServer(t)
	room := seedRoom(t, db)

	id := createBookingViaAPI(t, router, room, "2025-03-01", "2025-03-05")

	// Overlapping request is a conflict, distinguished from validation errors.
	w := doJSON(t, router, http.MethodPost, "/api/bookings", gin.H{
		"roomId":   room.ID,
		"checkIn":  "2025-03-02",
		"checkOut": "2025-03-03",
		"guest":    gin.H{"fullName": "Bob Guest", "email": "bob@example.com"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "room_unavailable", errCode(t, w))

	// The availability endpoint now excludes the room for those dates.
	w = doJSON(t, router, http.MethodPost, "/api/bookings/availability", gin.H{
		"checkIn":  "2025-03-02",
		"checkOut": "2025-03-03",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var avail struct {
		Available int `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.Equal(t, 0, avail.Available)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/bookings/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStateTransitionEndpoints(t *testing.T) {
	router, db := newTestServer(t)
	room := seedRoom(t, db)

	id := createBookingViaAPI(t, router, room, "2025-03-01", "2025-03-05")
	base := fmt.Sprintf("/api/bookings/%d", id)

	w := doJSON(t, router, http.MethodPost, base+"/check-in", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Repeating a completed transition conflicts, never silently succeeds.
	w = doJSON(t, router, http.MethodPost, base+"/check-in", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", errCode(t, w))

	var conflictBody struct {
		Error struct {
			CurrentStatus string `json:"currentStatus"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflictBody))
	assert.Equal(t, string(models.BookingCheckedIn), conflictBody.Error.CurrentStatus)

	w = doJSON(t, router, http.MethodPost, base+"/check-out", gin.H{"additionalCharges": 200})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, base+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", errCode(t, w))

	w = doJSON(t, router, http.MethodPost, "/api/bookings/9999/check-in", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errCode(t, w))
}
