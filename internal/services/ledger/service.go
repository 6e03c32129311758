// Package ledger implements the funding-request lifecycle and wallet
// mutation. Every multi-entity write runs inside a single database
// transaction so the request, its transaction record and the wallet
// balance can never disagree.
package ledger

import (
	"context"
	"errors"

	"github.com/skippergoroye/Accman-Server/internal/apperr"
	"github.com/skippergoroye/Accman-Server/internal/models"
	"github.com/skippergoroye/Accman-Server/internal/repositories"
)

// BalanceCache is the read cache in front of wallet balances. Mutations
// invalidate; reads may serve stale-free cached values.
type BalanceCache interface {
	GetBalance(ctx context.Context, userID uint) (float64, bool)
	SetBalance(ctx context.Context, userID uint, balance float64)
	Invalidate(ctx context.Context, userID uint)
}

type Service interface {
	SubmitFundingRequest(ctx context.Context, userID uint, amount float64) (*models.FundingRequest, *models.Transaction, error)
	ApproveFundingRequest(ctx context.Context, requestID uint) (float64, error)
	RejectFundingRequest(ctx context.Context, requestID uint) error
	GetBalance(ctx context.Context, userID uint) (float64, error)
	ListTransactionsForUser(ctx context.Context, userID uint, requester *models.AuthClaims) ([]models.Transaction, error)
}

type service struct {
	repo  repositories.LedgerRepository
	users repositories.UserRepository
	cache BalanceCache
}

// NewService creates a new ledger service. The cache is optional.
func NewService(repo repositories.LedgerRepository, users repositories.UserRepository, cache BalanceCache) Service {
	if repo == nil {
		panic("ledger repository is required")
	}
	if users == nil {
		panic("user repository is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &service{repo: repo, users: users, cache: cache}
}

func (s *service) SubmitFundingRequest(ctx context.Context, userID uint, amount float64) (*models.FundingRequest, *models.Transaction, error) {
	if amount <= 0 {
		return nil, nil, apperr.Validation("Amount must be greater than zero")
	}

	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, apperr.NotFound("User not found")
		}
		return nil, nil, apperr.Internal("failed to load user", err)
	}

	request := &models.FundingRequest{
		UserID: userID,
		Amount: amount,
		Status: models.FundingStatusPending,
	}
	transaction := &models.Transaction{
		UserID: userID,
		Type:   models.TransactionTypeFundingRequest,
		Amount: amount,
		Status: models.TransactionStatusPending,
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		if err := tx.CreateFundingRequest(request); err != nil {
			return err
		}
		transaction.RequestID = &request.ID
		return tx.CreateTransaction(transaction)
	})
	if err != nil {
		return nil, nil, apperr.Internal("failed to submit funding request", err)
	}

	return request, transaction, nil
}

func (s *service) ApproveFundingRequest(ctx context.Context, requestID uint) (float64, error) {
	var (
		ownerID    uint
		newBalance float64
	)

	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		request, err := tx.GetFundingRequest(requestID)
		if err != nil {
			if errors.Is(err, repositories.ErrFundingRequestNotFound) {
				return apperr.NotFound("Funding request not found")
			}
			return err
		}

		// The guarded transition is what prevents a double credit:
		// a request that already left pending matches zero rows.
		ok, err := tx.TransitionFundingRequest(requestID, models.FundingStatusPending, models.FundingStatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Funding request is not pending")
		}

		if err := tx.CreditBalance(request.UserID, request.Amount); err != nil {
			return err
		}
		if err := tx.SetTransactionStatusByRequest(requestID, models.TransactionStatusCompleted); err != nil {
			return err
		}

		ownerID = request.UserID
		newBalance, err = tx.UserBalance(request.UserID)
		return err
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return 0, appErr
		}
		return 0, apperr.Internal("failed to approve funding request", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	return newBalance, nil
}

func (s *service) RejectFundingRequest(ctx context.Context, requestID uint) error {
	var ownerID uint

	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		request, err := tx.GetFundingRequest(requestID)
		if err != nil {
			if errors.Is(err, repositories.ErrFundingRequestNotFound) {
				return apperr.NotFound("Funding request not found")
			}
			return err
		}

		ok, err := tx.TransitionFundingRequest(requestID, models.FundingStatusPending, models.FundingStatusRejected)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Funding request is not pending")
		}

		ownerID = request.UserID
		return tx.SetTransactionStatusByRequest(requestID, models.TransactionStatusFailed)
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.Internal("failed to reject funding request", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	return nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (float64, error) {
	if balance, ok := s.cache.GetBalance(ctx, userID); ok {
		return balance, nil
	}

	balance, err := s.repo.UserBalance(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return 0, apperr.NotFound("User not found")
		}
		return 0, apperr.Internal("failed to get balance", err)
	}

	s.cache.SetBalance(ctx, userID, balance)
	return balance, nil
}

func (s *service) ListTransactionsForUser(ctx context.Context, userID uint, requester *models.AuthClaims) ([]models.Transaction, error) {
	if requester == nil {
		return nil, apperr.Authentication("Missing credentials")
	}
	if requester.UserID != userID && !requester.IsAdmin() {
		return nil, apperr.Authorization("You are not authorized to view these transactions")
	}

	transactions, err := s.repo.ListTransactionsByUser(userID)
	if err != nil {
		return nil, apperr.Internal("failed to list transactions", err)
	}
	return transactions, nil
}

type noopCache struct{}

func (noopCache) GetBalance(context.Context, uint) (float64, bool) { return 0, false }
func (noopCache) SetBalance(context.Context, uint, float64)        {}
func (noopCache) Invalidate(context.Context, uint)                 {}
