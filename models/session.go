package models

import "time"

// Session is one issued bearer token. Tokens are opaque hex strings; a row
// past ExpiresAt is invalid and gets purged on the lookup that finds it.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;size:128" json:"-"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
