package models

import "time"

type Admin struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	FirstName         string     `json:"firstName,omitempty"`
	LastName          string     `json:"lastName,omitempty"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"not null" json:"-"`
	PhoneNumber       string     `json:"phoneNumber,omitempty"`
	Gender            string     `json:"gender,omitempty"`
	Img               string     `json:"img,omitempty"`
	Role              string     `gorm:"default:'admin'" json:"role"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	IsVerified        bool       `gorm:"default:false" json:"isVerified"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type PublicAdmin struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        string    `json:"role"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a *Admin) Public() PublicAdmin {
	return PublicAdmin{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Role:        a.Role,
		IsVerified:  a.IsVerified,
		CreatedAt:   a.CreatedAt,
	}
}
