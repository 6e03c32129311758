package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/skippergoroye/Accman-Server/internal/apperr"
	"github.com/skippergoroye/Accman-Server/internal/models"
	"github.com/skippergoroye/Accman-Server/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database limited to a single connection
// so concurrent transactions serialize the way they do on Postgres.
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

	require.NoError(t, repositories.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, balance float64) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Password:      "hashed",
		Role:          models.RoleUser,
		IsVerified:    true,
		WalletBalance: balance,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(repositories.NewLedgerRepository(db), repositories.NewUserRepository(db), nil), db
}

func TestSubmitFundingRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending request and transaction without touching balance", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 50)

		request, transaction, err := svc.SubmitFundingRequest(ctx, user.ID, 200)
		require.NoError(t, err)

		assert.Equal(t, models.FundingStatusPending, request.Status)
		assert.Equal(t, user.ID, request.UserID)
		assert.Equal(t, 200.0, request.Amount)

		assert.Equal(t, models.TransactionStatusPending, transaction.Status)
		assert.Equal(t, models.TransactionTypeFundingRequest, transaction.Type)
		require.NotNil(t, transaction.RequestID)
		assert.Equal(t, request.ID, *transaction.RequestID)

		balance, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, balance)
	})

	t.Run("rejects non-positive amounts without writing rows", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 0)

		for _, amount := range []float64{0, -5} {
			_, _, err := svc.SubmitFundingRequest(ctx, user.ID, amount)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		}

		var requests, transactions int64
		require.NoError(t, db.Model(&models.FundingRequest{}).Count(&requests).Error)
		require.NoError(t, db.Model(&models.Transaction{}).Count(&transactions).Error)
		assert.Zero(t, requests)
		assert.Zero(t, transactions)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, _, err := svc.SubmitFundingRequest(ctx, 999, 100)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestApproveFundingRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("credits the balance exactly once", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 100)

		request, _, err := svc.SubmitFundingRequest(ctx, user.ID, 500)
		require.NoError(t, err)

		newBalance, err := svc.ApproveFundingRequest(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, 600.0, newBalance)

		var stored models.FundingRequest
		require.NoError(t, db.First(&stored, request.ID).Error)
		assert.Equal(t, models.FundingStatusApproved, stored.Status)

		var transaction models.Transaction
		require.NoError(t, db.Where("request_id = ?", request.ID).First(&transaction).Error)
		assert.Equal(t, models.TransactionStatusCompleted, transaction.Status)
	})

	t.Run("second approval conflicts and does not credit again", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 0)

		request, _, err := svc.SubmitFundingRequest(ctx, user.ID, 250)
		require.NoError(t, err)

		_, err = svc.ApproveFundingRequest(ctx, request.ID)
		require.NoError(t, err)

		_, err = svc.ApproveFundingRequest(ctx, request.ID)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		balance, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 250.0, balance)
	})

	t.Run("approving a rejected request conflicts", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 0)

		request, _, err := svc.SubmitFundingRequest(ctx, user.ID, 75)
		require.NoError(t, err)
		require.NoError(t, svc.RejectFundingRequest(ctx, request.ID))

		_, err = svc.ApproveFundingRequest(ctx, request.ID)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		balance, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ApproveFundingRequest(ctx, 12345)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("concurrent approvals credit once", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 0)

		request, _, err := svc.SubmitFundingRequest(ctx, user.ID, 100)
		require.NoError(t, err)

		const attempts = 4
		errs := make([]error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.ApproveFundingRequest(ctx, request.ID)
			}(i)
		}
		wg.Wait()

		var succeeded, conflicted int
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case apperr.KindOf(err) == apperr.KindConflict:
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, attempts-1, conflicted)

		balance, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, balance)
	})
}

func TestRejectFundingRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("marks request rejected and transaction failed", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 40)

		request, _, err := svc.SubmitFundingRequest(ctx, user.ID, 300)
		require.NoError(t, err)
		require.NoError(t, svc.RejectFundingRequest(ctx, request.ID))

		var stored models.FundingRequest
		require.NoError(t, db.First(&stored, request.ID).Error)
		assert.Equal(t, models.FundingStatusRejected, stored.Status)

		var transaction models.Transaction
		require.NoError(t, db.Where("request_id = ?", request.ID).First(&transaction).Error)
		assert.Equal(t, models.TransactionStatusFailed, transaction.Status)

		balance, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 40.0, balance)
	})

	t.Run("rejecting an approved request conflicts", func(t *testing.T) {
		svc, db := newTestService(t)
		user := seedUser(t, db, 0)

		request, _, err := svc.SubmitFundingRequest(ctx, user.ID, 100)
		require.NoError(t, err)

		_, err = svc.ApproveFundingRequest(ctx, request.ID)
		require.NoError(t, err)

		err = svc.RejectFundingRequest(ctx, request.ID)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		var transaction models.Transaction
		require.NoError(t, db.Where("request_id = ?", request.ID).First(&transaction).Error)
		assert.Equal(t, models.TransactionStatusCompleted, transaction.Status)
	})
}

func TestIndependentRequests(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	user := seedUser(t, db, 0)

	first, _, err := svc.SubmitFundingRequest(ctx, user.ID, 500)
	require.NoError(t, err)
	second, _, err := svc.SubmitFundingRequest(ctx, user.ID, 200)
	require.NoError(t, err)

	require.NoError(t, svc.RejectFundingRequest(ctx, first.ID))
	newBalance, err := svc.ApproveFundingRequest(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, newBalance)

	transactions, err := svc.ListTransactionsForUser(ctx, user.ID, &models.AuthClaims{UserID: user.ID, Role: models.RoleUser})
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	statuses := map[string]bool{}
	for _, tr := range transactions {
		statuses[tr.Status] = true
	}
	assert.True(t, statuses[models.TransactionStatusCompleted])
	assert.True(t, statuses[models.TransactionStatusFailed])
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("reads through the cache", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 125)
		cache := &fakeCache{balances: map[uint]float64{}}
		svc := NewService(repositories.NewLedgerRepository(db), repositories.NewUserRepository(db), cache)

		balance, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 125.0, balance)
		assert.Equal(t, 125.0, cache.balances[user.ID])

		// A second read never reaches the database.
		cache.balances[user.ID] = 999
		balance, err = svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 999.0, balance)
	})

	t.Run("approval invalidates the cached balance", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		cache := &fakeCache{balances: map[uint]float64{}}
		svc := NewService(repositories.NewLedgerRepository(db), repositories.NewUserRepository(db), cache)

		_, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)

		request, _, err := svc.SubmitFundingRequest(ctx, user.ID, 80)
		require.NoError(t, err)
		_, err = svc.ApproveFundingRequest(ctx, request.ID)
		require.NoError(t, err)

		balance, err := svc.GetBalance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 80.0, balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.GetBalance(ctx, 42)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestListTransactionsForUser(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	owner := seedUser(t, db, 0)

	_, _, err := svc.SubmitFundingRequest(ctx, owner.ID, 60)
	require.NoError(t, err)

	t.Run("owner can list", func(t *testing.T) {
		transactions, err := svc.ListTransactionsForUser(ctx, owner.ID, &models.AuthClaims{UserID: owner.ID, Role: models.RoleUser})
		require.NoError(t, err)
		assert.Len(t, transactions, 1)
	})

	t.Run("admin can list anyone", func(t *testing.T) {
		transactions, err := svc.ListTransactionsForUser(ctx, owner.ID, &models.AuthClaims{UserID: 777, Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, transactions, 1)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, err := svc.ListTransactionsForUser(ctx, owner.ID, &models.AuthClaims{UserID: 2, Role: models.RoleUser})
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	})

	t.Run("missing claims", func(t *testing.T) {
		_, err := svc.ListTransactionsForUser(ctx, owner.ID, nil)
		assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
	})
}

type fakeCache struct {
	mu       sync.Mutex
	balances map[uint]float64
}

func (c *fakeCache) GetBalance(_ context.Context, userID uint) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	balance, ok := c.balances[userID]
	return balance, ok
}

func (c *fakeCache) SetBalance(_ context.Context, userID uint, balance float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[userID] = balance
}

func (c *fakeCache) Invalidate(_ context.Context, userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.balances, userID)
}
