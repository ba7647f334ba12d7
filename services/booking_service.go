package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bossppp/cozy-hotel-bookings/cache"
	"github.com/Bossppp/cozy-hotel-bookings/metrics"
	"github.com/Bossppp/cozy-hotel-bookings/models"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

const (
	maxBookingNights    = 3
	bookingWindowMonths = 3
	bookingCacheTTL     = 2 * time.Minute
)

// BookingService owns the reservation lifecycle: validation, creation,
// scoped listing and cancellation.
type BookingService struct {
	DB    *gorm.DB
	Cache cache.Store

	// now is swappable so the date-window rules are testable.
	now func() time.Time
}

func NewBookingService(db *gorm.DB, store cache.Store) *BookingService {
	return &BookingService{DB: db, Cache: store, now: time.Now}
}

type BookingInput struct {
	StartDate time.Time
	EndDate   time.Time
	HotelID   uint
}

// validateDates applies the reservation rules in order; the first failure
// wins and nothing touches the database.
func (s *BookingService) validateDates(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, validationErr("both check-in and check-out dates are required")
	}
	if !start.Before(end) {
		return 0, validationErr("check-out date must be after check-in date")
	}

	today := startOfDay(s.now().UTC())
	if start.Before(today) {
		return 0, validationErr("check-in date must not be in the past")
	}
	latest := today.AddDate(0, bookingWindowMonths, 0).Add(24 * time.Hour)
	if end.After(latest) {
		return 0, validationErr("bookings can be made at most 3 months ahead")
	}

	nights := nightsBetween(start, end)
	if nights > maxBookingNights {
		return 0, validationErr("maximum booking duration is 3 nights")
	}
	return nights, nil
}

// Create validates the date range, checks the hotel exists, persists the
// booking and sends a best-effort confirmation email.
func (s *BookingService) Create(ctx context.Context, user models.User, input BookingInput) (models.Booking, error) {
	nights, err := s.validateDates(input.StartDate, input.EndDate)
	if err != nil {
		return models.Booking{}, err
	}

	var hotel models.Hotel
	if err := s.DB.WithContext(ctx).First(&hotel, input.HotelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrHotelNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to load hotel: %w", err)
	}

	booking := models.Booking{
		ReferenceCode: uuid.NewString(),
		StartDate:     input.StartDate.UTC(),
		EndDate:       input.EndDate.UTC(),
		Nights:        nights,
		HotelID:       hotel.ID,
		UserID:        user.ID,
	}
	if err := s.DB.WithContext(ctx).Create(&booking).Error; err != nil {
		return models.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.Event{Mutation: cache.BookingCreated, UserID: user.ID})
	metrics.IncBookingCreated()

	// confirmation email never fails the booking
	if err := utils.SendBookingConfirmationEmail(user.Email, user.Name, utils.BookingEmailData{
		ReferenceCode: booking.ReferenceCode,
		HotelName:     hotel.Name,
		CheckIn:       booking.StartDate.Format("2006-01-02"),
		CheckOut:      booking.EndDate.Format("2006-01-02"),
		Nights:        booking.Nights,
	}); err != nil {
		log.Printf("confirmation email for booking %s failed: %v", booking.ReferenceCode, err)
	}

	return booking, nil
}

// ListFor returns the caller's bookings, or every booking for admins, with
// hotel and user expanded.
func (s *BookingService) ListFor(ctx context.Context, user models.User) ([]models.Booking, error) {
	key := cache.UserBookingsKey(user.ID)
	if user.IsAdmin() {
		key = cache.AllBookingsKey()
	}

	var bookings []models.Booking
	if cache.GetJSON(ctx, s.Cache, key, &bookings) {
		return bookings, nil
	}

	q := s.DB.WithContext(ctx).Preload("Hotel").Preload("User").Order("start_date")
	if !user.IsAdmin() {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	cache.SetJSON(ctx, s.Cache, key, bookings, bookingCacheTTL)
	return bookings, nil
}

// Cancel deletes the booking. Plain users may cancel only their own; a
// second cancel of the same id reports not found.
func (s *BookingService) Cancel(ctx context.Context, user models.User, bookingID uint) error {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to load booking: %w", err)
	}

	if !user.IsAdmin() && booking.UserID != user.ID {
		return ErrForbidden
	}

	if err := s.DB.WithContext(ctx).Delete(&models.Booking{}, bookingID).Error; err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.Event{Mutation: cache.BookingDeleted, UserID: booking.UserID})
	metrics.IncBookingCancelled()
	return nil
}

// ListBetween returns bookings whose stay overlaps [from, to], for reports.
func (s *BookingService) ListBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.WithContext(ctx).
		Preload("Hotel").Preload("User").
		Where("start_date < ? AND end_date > ?", to, from).
		Order("start_date").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// nightsBetween rounds partial days up, matching how the stay is billed.
func nightsBetween(start, end time.Time) int {
	d := end.Sub(start)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}
