// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/models"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type AvailabilityRequest struct {
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	BranchID   uint   `json:"branchId"`
	RoomTypeID uint   `json:"roomTypeId"`
	Guests     int    `json:"guests"`
}

type CreateBookingRequest struct {
	RoomID     uint                 `json:"roomId" binding:"required"`
	CustomerID uint                 `json:"customerId"`
	Guest      *services.GuestInput `json:"guest"`

	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`

	Guests          int      `json:"guests"`
	DeferPayment    bool     `json:"deferPayment"`
	SpecialRequests []string `json:"specialRequests"`
}

type CheckOutRequest struct {
	AdditionalCharges float64 `json:"additionalCharges"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc      *services.BookingService
	AvailabilitySvc *services.AvailabilityService
}

func NewBookingController(bookingSvc *services.BookingService, availabilitySvc *services.AvailabilityService) *BookingController {
	return &BookingController{BookingSvc: bookingSvc, AvailabilitySvc: availabilitySvc}
}

// respondServiceError maps the domain error taxonomy onto HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	if ve := services.IsValidationError(err); ve != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", ve.Msg)
		return
	}
	if te := services.IsInvalidTransition(err); te != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":          "invalid_state",
				"message":       te.Error(),
				"currentStatus": te.Current,
			},
		})
		return
	}
	switch {
	case errors.Is(err, services.ErrRoomNotFound), errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrRoomUnavailable):
		utils.JSONError(c, http.StatusConflict, "room_unavailable", "room is not available for the requested dates")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "invalid booking id")
		return 0, false
	}
	return uint(id), true
}

// CheckAvailability handles POST /api/bookings/availability
func (bc *BookingController) CheckAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	ci, err := models.ParseBookingDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "invalid checkIn format")
		return
	}
	co, err := models.ParseBookingDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "invalid checkOut format")
		return
	}

	rooms, err := bc.AvailabilitySvc.ListAvailableRooms(services.RoomFilter{
		BranchID:     req.BranchID,
		RoomTypeID:   req.RoomTypeID,
		MinOccupancy: req.Guests,
	}, ci, co)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": len(rooms), "rooms": rooms})
}

// CreateBooking handles POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	booking, err := bc.BookingSvc.Create(services.CreateBookingInput{
		RoomID:          req.RoomID,
		CustomerID:      req.CustomerID,
		Guest:           req.Guest,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		DeferPayment:    req.DeferPayment,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetBookings handles GET /api/bookings
func (bc *BookingController) GetBookings(c *gin.Context) {
	var filter services.ListFilter
	if v := c.Query("branchId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.BranchID = uint(id)
		}
	}
	if v := c.Query("roomId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.RoomID = uint(id)
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = models.BookingStatus(v)
	}

	list, err := bc.BookingSvc.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GetBookingDetails handles GET /api/bookings/:id
func (bc *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// GetBookingByReference handles GET /api/bookings/reference/:code
func (bc *BookingController) GetBookingByReference(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "reference code is required")
		return
	}
	booking, err := bc.BookingSvc.GetByReference(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CheckIn handles POST /api/bookings/:id/check-in
func (bc *BookingController) CheckIn(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.CheckIn(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CheckOut handles POST /api/bookings/:id/check-out
func (bc *BookingController) CheckOut(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var req CheckOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
	}
	booking, err := bc.BookingSvc.CheckOut(id, req.AdditionalCharges)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// Cancel handles POST /api/bookings/:id/cancel
func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.Cancel(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
