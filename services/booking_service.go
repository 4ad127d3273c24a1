// services/booking_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotel-booking-backend/metrics"
	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"
)

// BookingService owns the booking state machine and the transactional write
// path that keeps the no-overlap invariant under concurrent writers.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// GuestInput identifies the guest when no customer record exists yet.
type GuestInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type CreateBookingInput struct {
	RoomID     uint
	CustomerID uint
	Guest      *GuestInput

	CheckIn  string
	CheckOut string

	Guests          int
	DeferPayment    bool
	SpecialRequests []string
}

// parseDate accepts "2006-01-02" or RFC3339.
func parseDate(value, field string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, newValidationError("%s is required", field)
	}
	t, err := models.ParseBookingDate(value)
	if err != nil {
		return time.Time{}, newValidationError("invalid %s format: %q", field, value)
	}
	return t, nil
}

func (s *BookingService) resolveCustomer(in CreateBookingInput) (*models.Customer, error) {
	if in.CustomerID != 0 {
		var cust models.Customer
		if err := s.DB.First(&cust, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newValidationError("customer %d not found", in.CustomerID)
			}
			return nil, fmt.Errorf("db error checking customer: %w", err)
		}
		return &cust, nil
	}

	if in.Guest == nil || strings.TrimSpace(in.Guest.FullName) == "" {
		return nil, newValidationError("either customer_id or guest details are required")
	}

	// Reuse an existing customer record when the email is known.
	email := strings.TrimSpace(in.Guest.Email)
	if email != "" {
		var existing models.Customer
		err := s.DB.Where("email = ?", email).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("db error looking up customer by email: %w", err)
		}
	}

	cust := models.Customer{
		FullName: strings.TrimSpace(in.Guest.FullName),
		Email:    email,
		Phone:    strings.TrimSpace(in.Guest.Phone),
	}
	if err := s.DB.Create(&cust).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &cust, nil
}

// Create validates the request, then runs the atomic unit "recheck
// availability + insert booking + hold nights + update room status" in one
// transaction. A concurrent overlapping writer collides on the room_nights
// unique index; the loser retries the availability check once and reports the
// room as unavailable.
func (s *BookingService) Create(in CreateBookingInput) (*models.Booking, error) {
	if in.RoomID == 0 {
		return nil, newValidationError("room_id is required")
	}

	ci, err := parseDate(in.CheckIn, "check_in")
	if err != nil {
		return nil, err
	}
	co, err := parseDate(in.CheckOut, "check_out")
	if err != nil {
		return nil, err
	}
	ci = normalizeDate(ci)
	co = normalizeDate(co)
	if err := validateInterval(ci, co); err != nil {
		return nil, err
	}

	var room models.Room
	if err := s.DB.First(&room, in.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("db error checking room %d: %w", in.RoomID, err)
	}
	if room.Status == models.RoomMaintenance {
		metrics.IncBookingConflict()
		return nil, ErrRoomUnavailable
	}

	guests := in.Guests
	if guests <= 0 {
		guests = 1
	}
	if room.MaxOccupancy > 0 && guests > room.MaxOccupancy {
		return nil, newValidationError("room %s holds at most %d guests", room.RoomNumber, room.MaxOccupancy)
	}

	cust, err := s.resolveCustomer(in)
	if err != nil {
		return nil, err
	}

	status := models.BookingConfirmed
	if in.DeferPayment {
		status = models.BookingPending
	}

	requestsJSON, _ := json.Marshal(in.SpecialRequests)

	nights := models.NightsBetween(ci, co)

	var bookingID uint
	attempt := func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			conflicts, err := findConflicts(tx, room.ID, ci, co)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return ErrRoomUnavailable
			}

			booking := models.Booking{
				ReferenceCode:   utils.NewBookingReference(),
				BranchID:        room.BranchID,
				RoomID:          room.ID,
				CustomerID:      cust.ID,
				Status:          status,
				CheckIn:         ci,
				CheckOut:        co,
				Nights:          nights,
				NumberOfGuests:  guests,
				TotalAmount:     float64(nights) * room.Price,
				SpecialRequests: datatypes.JSON(requestsJSON),
			}
			if err := tx.Create(&booking).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrStorageConflict
				}
				return fmt.Errorf("failed to create booking: %w", err)
			}

			heldNights := models.ExpandNights(room.ID, booking.ID, ci, co)
			if err := tx.Create(&heldNights).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrStorageConflict
				}
				return fmt.Errorf("failed to hold room nights: %w", err)
			}

			// Only an idle room becomes reserved; a room occupied by a current
			// guest keeps its status.
			if err := tx.Model(&models.Room{}).
				Where("id = ? AND status = ?", room.ID, models.RoomAvailable).
				Update("status", models.RoomReserved).Error; err != nil {
				return fmt.Errorf("failed to update room %d status: %w", room.ID, err)
			}

			bookingID = booking.ID
			return nil
		})
	}

	err = attempt()
	if errors.Is(err, ErrStorageConflict) {
		// Lost the commit race; one internal retry either succeeds or produces
		// a clean unavailability answer from the fresh conflict check.
		err = attempt()
		if errors.Is(err, ErrStorageConflict) {
			err = ErrRoomUnavailable
		}
	}
	if err != nil {
		if errors.Is(err, ErrRoomUnavailable) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated(string(status))
	return s.GetByID(bookingID)
}

// CheckIn moves a confirmed booking to checked_in and the room to occupied.
func (s *BookingService) CheckIn(bookingID uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingConfirmed {
			return &InvalidTransitionError{BookingID: bookingID, Op: "check_in", Current: booking.Status}
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", bookingID, models.BookingConfirmed).
			Updates(map[string]interface{}{
				"status":        models.BookingCheckedIn,
				"checked_in_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStorageConflict
		}

		return tx.Model(&models.Room{}).
			Where("id = ?", booking.RoomID).
			Update("status", models.RoomOccupied).Error
	})
	if err != nil {
		return nil, s.resolveTransitionError(err, bookingID, "check_in")
	}

	metrics.IncTransition("check_in")
	return s.GetByID(bookingID)
}

// CheckOut moves a checked-in booking to checked_out, adds any additional
// charges to the total, releases the held nights, and sends the room to
// cleaning.
func (s *BookingService) CheckOut(bookingID uint, additionalCharges float64) (*models.Booking, error) {
	if additionalCharges < 0 {
		return nil, newValidationError("additional charges must not be negative")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingCheckedIn {
			return &InvalidTransitionError{BookingID: bookingID, Op: "check_out", Current: booking.Status}
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", bookingID, models.BookingCheckedIn).
			Updates(map[string]interface{}{
				"status":             models.BookingCheckedOut,
				"checked_out_at":     now,
				"additional_charges": booking.AdditionalCharges + additionalCharges,
				"total_amount":       booking.TotalAmount + additionalCharges,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStorageConflict
		}

		if err := tx.Where("booking_id = ?", bookingID).
			Delete(&models.RoomNight{}).Error; err != nil {
			return fmt.Errorf("failed to release room nights: %w", err)
		}

		return tx.Model(&models.Room{}).
			Where("id = ?", booking.RoomID).
			Update("status", models.RoomCleaning).Error
	})
	if err != nil {
		return nil, s.resolveTransitionError(err, bookingID, "check_out")
	}

	metrics.IncTransition("check_out")
	return s.GetByID(bookingID)
}

// Cancel abandons a pending or confirmed booking and releases its nights. The
// room reverts to available only when no other active booking covers the
// current instant.
func (s *BookingService) Cancel(bookingID uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
			return &InvalidTransitionError{BookingID: bookingID, Op: "cancel", Current: booking.Status}
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status IN ?", bookingID, []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
			Updates(map[string]interface{}{
				"status":       models.BookingCancelled,
				"cancelled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStorageConflict
		}

		if err := tx.Where("booking_id = ?", bookingID).
			Delete(&models.RoomNight{}).Error; err != nil {
			return fmt.Errorf("failed to release room nights: %w", err)
		}

		var covering int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND id <> ? AND status IN ?", booking.RoomID, bookingID, models.ActiveBookingStatuses).
			Where("check_in <= ? AND check_out > ?", now, now).
			Count(&covering).Error; err != nil {
			return err
		}
		if covering == 0 {
			// Only a reservation-held room reverts; rooms sent to maintenance
			// or cleaning in the meantime keep their operational status.
			return tx.Model(&models.Room{}).
				Where("id = ? AND status = ?", booking.RoomID, models.RoomReserved).
				Update("status", models.RoomAvailable).Error
		}
		return nil
	})
	if err != nil {
		return nil, s.resolveTransitionError(err, bookingID, "cancel")
	}

	metrics.IncTransition("cancel")
	return s.GetByID(bookingID)
}

// resolveTransitionError converts an internal commit race on a status-guarded
// update into the InvalidTransitionError the caller would have seen had it
// arrived a moment later.
func (s *BookingService) resolveTransitionError(err error, bookingID uint, op string) error {
	if !errors.Is(err, ErrStorageConflict) {
		return err
	}
	var booking models.Booking
	if e := s.DB.First(&booking, bookingID).Error; e != nil {
		return err
	}
	return &InvalidTransitionError{BookingID: bookingID, Op: op, Current: booking.Status}
}

func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("Room").
		Preload("Room.RoomType").
		Preload("Customer").
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

func (s *BookingService) GetByReference(referenceCode string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("Room").
		Preload("Room.RoomType").
		Preload("Customer").
		Where("reference_code = ?", referenceCode).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// ListFilter narrows the booking list surface consumed by the back office.
type ListFilter struct {
	BranchID uint
	RoomID   uint
	Status   models.BookingStatus
}

func (s *BookingService) List(f ListFilter) ([]models.Booking, error) {
	q := s.DB.
		Preload("Room").
		Preload("Room.RoomType").
		Preload("Customer").
		Order("created_at DESC")

	if f.BranchID != 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var list []models.Booking
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}
