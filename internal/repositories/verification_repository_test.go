package repositories

import (
	"testing"
	"time"

	"github.com/skippergoroye/Accman-Server/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestVerificationReplace(t *testing.T) {
	db := newTestDB(t)
	repo := NewVerificationRepository(db)

	require.NoError(t, repo.Replace(&models.Verification{
		Email:     "grace@example.com",
		OTP:       "111111",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))
	require.NoError(t, repo.Replace(&models.Verification{
		Email:     "grace@example.com",
		OTP:       "222222",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))

	// The first code is gone, only the replacement matches.
	_, err := repo.GetByEmailAndOTP("grace@example.com", "111111")
	assert.ErrorIs(t, err, ErrVerificationNotFound)

	v, err := repo.GetByEmailAndOTP("grace@example.com", "222222")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", v.Email)

	var count int64
	require.NoError(t, db.Model(&models.Verification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerificationDeleteExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewVerificationRepository(db)
	now := time.Now()

	require.NoError(t, repo.Replace(&models.Verification{
		Email:     "old@example.com",
		OTP:       "111111",
		ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, repo.Replace(&models.Verification{
		Email:     "fresh@example.com",
		OTP:       "222222",
		ExpiresAt: now.Add(10 * time.Minute),
	}))

	removed, err := repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.GetByEmailAndOTP("old@example.com", "111111")
	assert.ErrorIs(t, err, ErrVerificationNotFound)
	_, err = repo.GetByEmailAndOTP("fresh@example.com", "222222")
	assert.NoError(t, err)
}

func TestTransitionFundingRequest(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	request := &models.FundingRequest{UserID: 1, Amount: 100, Status: models.FundingStatusPending}
	require.NoError(t, repo.CreateFundingRequest(request))

	ok, err := repo.TransitionFundingRequest(request.ID, models.FundingStatusPending, models.FundingStatusApproved)
	require.NoError(t, err)
	assert.True(t, ok)

	// A request that already left pending matches zero rows.
	ok, err = repo.TransitionFundingRequest(request.ID, models.FundingStatusPending, models.FundingStatusRejected)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetFundingRequest(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FundingStatusApproved, stored.Status)
}

func TestCreditBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := &models.User{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "x", WalletBalance: 10}
	require.NoError(t, db.Create(user).Error)

	require.NoError(t, repo.CreditBalance(user.ID, 15.5))
	balance, err := repo.UserBalance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.5, balance)

	assert.ErrorIs(t, repo.CreditBalance(999, 5), ErrUserNotFound)
}
