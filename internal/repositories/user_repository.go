package repositories

import (
	"errors"
	"time"

	"github.com/skippergoroye/Accman-Server/internal/models"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrAdminNotFound          = errors.New("admin not found")
	ErrVerificationNotFound   = errors.New("verification code not found")
	ErrFundingRequestNotFound = errors.New("funding request not found")
	ErrDatabaseOperation      = errors.New("database operation failed")
)

// UserRepository defines user persistence. Soft-deleted users are
// invisible to every lookup except the admin hard delete.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	MarkVerified(email string) error
	SetResetToken(userID uint, token string, expires time.Time) error
	UpdatePassword(userID uint, hashedPassword string) error
	List(newestFirst bool) ([]models.User, error)
	SoftDelete(id uint) error
	HardDelete(id uint) error

	// Aggregates for the admin dashboard.
	Count() (int64, error)
	CountVerified() (int64, error)
	TotalWalletBalance() (float64, error)
}
