package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Bossppp/cozy-hotel-bookings/cache"
	"github.com/Bossppp/cozy-hotel-bookings/models"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

const hotelCacheTTL = 5 * time.Minute

// HotelService wraps hotel CRUD with form validation and the keyed read
// cache. Reads go cache-first; mutations invalidate on success only.
type HotelService struct {
	DB    *gorm.DB
	Cache cache.Store
}

func NewHotelService(db *gorm.DB, store cache.Store) *HotelService {
	return &HotelService{DB: db, Cache: store}
}

type HotelInput struct {
	Name    string         `json:"name"`
	Address models.Address `json:"address"`
	Tel     string         `json:"tel"`
}

func (in HotelInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationErr("hotel name is required")
	}
	if !utils.IsValidPostalCode(in.Address.PostalCode) {
		return validationErr("postal code must be exactly 5 characters")
	}
	if !utils.IsValidTel(in.Tel) {
		return validationErr("telephone number must contain 10 to 12 digits")
	}
	return nil
}

func (s *HotelService) List(ctx context.Context) ([]models.Hotel, error) {
	var hotels []models.Hotel
	if cache.GetJSON(ctx, s.Cache, cache.HotelsKey(), &hotels) {
		return hotels, nil
	}

	if err := s.DB.WithContext(ctx).Order("id").Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	cache.SetJSON(ctx, s.Cache, cache.HotelsKey(), hotels, hotelCacheTTL)
	return hotels, nil
}

func (s *HotelService) Get(ctx context.Context, id uint) (models.Hotel, error) {
	var hotel models.Hotel
	if cache.GetJSON(ctx, s.Cache, cache.HotelKey(id), &hotel) {
		return hotel, nil
	}

	if err := s.DB.WithContext(ctx).First(&hotel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Hotel{}, ErrHotelNotFound
		}
		return models.Hotel{}, fmt.Errorf("failed to load hotel: %w", err)
	}
	cache.SetJSON(ctx, s.Cache, cache.HotelKey(id), hotel, hotelCacheTTL)
	return hotel, nil
}

func (s *HotelService) Create(ctx context.Context, input HotelInput) (models.Hotel, error) {
	if err := input.validate(); err != nil {
		return models.Hotel{}, err
	}

	hotel := models.Hotel{
		Name:    strings.TrimSpace(input.Name),
		Address: input.Address,
		Tel:     strings.TrimSpace(input.Tel),
	}
	if err := s.DB.WithContext(ctx).Create(&hotel).Error; err != nil {
		return models.Hotel{}, fmt.Errorf("failed to create hotel: %w", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.Event{Mutation: cache.HotelCreated})
	return hotel, nil
}

func (s *HotelService) Update(ctx context.Context, id uint, input HotelInput) (models.Hotel, error) {
	if err := input.validate(); err != nil {
		return models.Hotel{}, err
	}

	var hotel models.Hotel
	if err := s.DB.WithContext(ctx).First(&hotel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Hotel{}, ErrHotelNotFound
		}
		return models.Hotel{}, fmt.Errorf("failed to load hotel: %w", err)
	}

	hotel.Name = strings.TrimSpace(input.Name)
	hotel.Address = input.Address
	hotel.Tel = strings.TrimSpace(input.Tel)
	if err := s.DB.WithContext(ctx).Save(&hotel).Error; err != nil {
		return models.Hotel{}, fmt.Errorf("failed to update hotel: %w", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.Event{Mutation: cache.HotelUpdated, HotelID: id})
	return hotel, nil
}

// Delete removes the hotel and its bookings in one transaction.
func (s *HotelService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hotel models.Hotel
		if err := tx.First(&hotel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHotelNotFound
			}
			return fmt.Errorf("failed to load hotel: %w", err)
		}
		if err := tx.Where("hotel_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete hotel bookings: %w", err)
		}
		if err := tx.Delete(&models.Hotel{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete hotel: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.Invalidate(ctx, s.Cache, cache.Event{Mutation: cache.HotelDeleted, HotelID: id})
	return nil
}
