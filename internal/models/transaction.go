package models

import "time"

// Transaction types
const (
	TransactionTypeFundingRequest = "funding_request"
	TransactionTypeWithdrawal     = "withdrawal"
)

// Transaction states
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction is the ledger record for a wallet movement. A
// funding_request transaction is created pending alongside its
// FundingRequest and mirrors that request's terminal status.
type Transaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Type      string    `gorm:"not null" json:"type"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	RequestID *uint     `gorm:"index" json:"requestId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
