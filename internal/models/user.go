package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	FirstName         string         `gorm:"not null" json:"firstName"`
	LastName          string         `gorm:"not null" json:"lastName"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	Password          string         `gorm:"not null" json:"-"`
	PhoneNumber       string         `json:"phoneNumber,omitempty"`
	Gender            string         `json:"gender,omitempty"`
	Img               string         `json:"img,omitempty"`
	Role              string         `gorm:"default:'user'" json:"role"`
	ResetToken        *string        `json:"-"`
	ResetTokenExpires *time.Time     `json:"-"`
	IsVerified        bool           `gorm:"default:false" json:"isVerified"`
	WalletBalance     float64        `gorm:"not null;default:0" json:"walletBalance"`
	Blocked           bool           `gorm:"default:false" json:"blocked"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicUser is the projection of a User that is safe to return to clients.
// Built deliberately instead of stripping fields off the raw entity.
type PublicUser struct {
	ID            uint      `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	Img           string    `json:"img,omitempty"`
	Role          string    `json:"role"`
	IsVerified    bool      `json:"isVerified"`
	WalletBalance float64   `json:"walletBalance"`
	Blocked       bool      `json:"blocked"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		Gender:        u.Gender,
		Img:           u.Img,
		Role:          u.Role,
		IsVerified:    u.IsVerified,
		WalletBalance: u.WalletBalance,
		Blocked:       u.Blocked,
		CreatedAt:     u.CreatedAt,
	}
}
