package repositories

import (
	"github.com/skippergoroye/Accman-Server/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository covers funding requests, transactions and balance
// mutation. ExecuteInTransaction yields a repository bound to the same
// database transaction so multi-entity writes commit or roll back as
// one unit.
type LedgerRepository interface {
	CreateFundingRequest(fr *models.FundingRequest) error
	GetFundingRequest(id uint) (*models.FundingRequest, error)
	// TransitionFundingRequest moves a request from one status to
	// another. It reports false when the request was not in the
	// expected source status, which is how concurrent approvals are
	// serialized.
	TransitionFundingRequest(id uint, from, to string) (bool, error)
	ListPendingFundingRequests() ([]models.FundingRequest, error)
	CountPendingFundingRequests() (int64, error)

	CreateTransaction(t *models.Transaction) error
	SetTransactionStatusByRequest(requestID uint, status string) error
	ListTransactionsByUser(userID uint) ([]models.Transaction, error)
	ListAllTransactions() ([]models.Transaction, error)
	TransactionVolume() (float64, error)

	CreditBalance(userID uint, amount float64) error
	UserBalance(userID uint) (float64, error)

	ExecuteInTransaction(fn func(LedgerRepository) error) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateFundingRequest(fr *models.FundingRequest) error {
	if err := r.db.Create(fr).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *ledgerRepository) GetFundingRequest(id uint) (*models.FundingRequest, error) {
	var fr models.FundingRequest
	if err := r.db.First(&fr, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrFundingRequestNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &fr, nil
}

func (r *ledgerRepository) TransitionFundingRequest(id uint, from, to string) (bool, error) {
	result := r.db.Model(&models.FundingRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, ErrDatabaseOperation
	}
	return result.RowsAffected > 0, nil
}

func (r *ledgerRepository) ListPendingFundingRequests() ([]models.FundingRequest, error) {
	var requests []models.FundingRequest
	err := r.db.Where("status = ?", models.FundingStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return requests, nil
}

func (r *ledgerRepository) CountPendingFundingRequests() (int64, error) {
	var total int64
	err := r.db.Model(&models.FundingRequest{}).
		Where("status = ?", models.FundingStatusPending).
		Count(&total).Error
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	return total, nil
}

func (r *ledgerRepository) CreateTransaction(t *models.Transaction) error {
	if err := r.db.Create(t).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *ledgerRepository) SetTransactionStatusByRequest(requestID uint, status string) error {
	err := r.db.Model(&models.Transaction{}).
		Where("request_id = ?", requestID).
		Update("status", status).Error
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *ledgerRepository) ListTransactionsByUser(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return transactions, nil
}

func (r *ledgerRepository) ListAllTransactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return transactions, nil
}

func (r *ledgerRepository) TransactionVolume() (float64, error) {
	var total float64
	err := r.db.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	return total, nil
}

func (r *ledgerRepository) CreditBalance(userID uint, amount float64) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *ledgerRepository) UserBalance(userID uint) (float64, error) {
	var user models.User
	if err := r.db.Select("wallet_balance").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrUserNotFound
		}
		return 0, ErrDatabaseOperation
	}
	return user.WalletBalance, nil
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}
