package models

import "time"

// Verification holds a short-lived one-time code mailed to an address.
// At most one code is kept per email: storing a new code replaces any
// previous one.
type Verification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"index;not null" json:"email"`
	OTP       string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (v *Verification) Expired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}
