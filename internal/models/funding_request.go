package models

import "time"

// Funding request states. Pending is the only non-terminal state.
const (
	FundingStatusPending  = "pending"
	FundingStatusApproved = "approved"
	FundingStatusRejected = "rejected"
)

type FundingRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
