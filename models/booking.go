package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ReferenceCode string         `gorm:"size:64;uniqueIndex" json:"reference_code"`
	StartDate     time.Time      `gorm:"column:start_date" json:"start_date"`
	EndDate       time.Time      `gorm:"column:end_date" json:"end_date"`
	Nights        int            `json:"nights"`
	HotelID       uint           `gorm:"index;column:hotel_id" json:"-"`
	UserID        uint           `gorm:"index;column:user_id" json:"-"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"-"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// serialized so cached list entries keep their preloaded records;
	// responses go through BookingView, never through Booking directly
	Hotel Hotel `gorm:"foreignKey:HotelID;references:ID" json:"hotel"`
	User  User  `gorm:"foreignKey:UserID;references:ID" json:"user"`
}

// BookingView is the wire form of a booking. Hotel and user ride along as
// tagged references so an endpoint can answer with either the bare id or the
// expanded record.
type BookingView struct {
	ID            uint      `json:"id"`
	ReferenceCode string    `json:"reference_code"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Nights        int       `json:"nights"`
	Hotel         HotelRef  `json:"hotel"`
	User          UserRef   `json:"user"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AsReference renders the booking with bare hotel/user ids, the shape a
// create response uses.
func (b Booking) AsReference() BookingView {
	return BookingView{
		ID:            b.ID,
		ReferenceCode: b.ReferenceCode,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Nights:        b.Nights,
		Hotel:         HotelRefID(b.HotelID),
		User:          UserRefID(b.UserID),
		CreatedAt:     b.CreatedAt,
	}
}

// AsExpanded renders the booking with the preloaded hotel and user records
// embedded, the shape list endpoints use.
func (b Booking) AsExpanded() BookingView {
	v := b.AsReference()
	if b.Hotel.ID != 0 {
		v.Hotel = HotelRefObject(b.Hotel)
	}
	if b.User.ID != 0 {
		v.User = UserRefObject(b.User)
	}
	return v
}
