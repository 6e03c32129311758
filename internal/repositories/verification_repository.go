package repositories

import (
	"time"

	"github.com/skippergoroye/Accman-Server/internal/models"

	"gorm.io/gorm"
)

// VerificationRepository stores one-time codes. A single code is kept
// per email: Replace removes any previous codes for the address before
// inserting the new one.
type VerificationRepository interface {
	Replace(v *models.Verification) error
	GetByEmailAndOTP(email, otp string) (*models.Verification, error)
	Delete(id uint) error
	DeleteExpired(now time.Time) (int64, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Replace(v *models.Verification) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", v.Email).Delete(&models.Verification{}).Error; err != nil {
			return err
		}
		return tx.Create(v).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *verificationRepository) GetByEmailAndOTP(email, otp string) (*models.Verification, error) {
	var v models.Verification
	if err := r.db.Where("email = ? AND otp = ?", email, otp).First(&v).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrVerificationNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &v, nil
}

func (r *verificationRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Verification{}, id).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *verificationRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.Verification{})
	if result.Error != nil {
		return 0, ErrDatabaseOperation
	}
	return result.RowsAffected, nil
}
