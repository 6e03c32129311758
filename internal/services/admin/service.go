// Package admin implements admin credentials and the aggregated
// dashboard views. Funding approval itself lives in the ledger service;
// the admin HTTP layer delegates there.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/skippergoroye/Accman-Server/internal/apperr"
	"github.com/skippergoroye/Accman-Server/internal/models"
	"github.com/skippergoroye/Accman-Server/internal/repositories"
	"github.com/skippergoroye/Accman-Server/internal/services/mailer"
	"github.com/skippergoroye/Accman-Server/internal/utils"
	"github.com/skippergoroye/Accman-Server/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL   = 15 * time.Minute
	tokenTTL = 24 * time.Hour
)

type RegisterInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	PhoneNumber     string `json:"phoneNumber"`
}

// DashboardData is the aggregate view behind GET /admin/dashboard.
type DashboardData struct {
	TotalUsers             int64   `json:"totalUsers"`
	VerifiedUsers          int64   `json:"verifiedUsers"`
	TotalWalletBalance     float64 `json:"totalWalletBalance"`
	PendingFundingRequests int64   `json:"pendingFundingRequests"`
	TransactionVolume      float64 `json:"transactionVolume"`
}

type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, input RegisterInput) (*models.PublicAdmin, string, error)
	DashboardData(ctx context.Context) (*DashboardData, error)
	ListUsers(ctx context.Context, newestFirst bool) ([]models.PublicUser, error)
	PendingFundingRequests(ctx context.Context) ([]models.FundingRequest, error)
	AllTransactions(ctx context.Context) ([]models.Transaction, error)
}

type service struct {
	admins        repositories.AdminRepository
	users         repositories.UserRepository
	ledger        repositories.LedgerRepository
	verifications repositories.VerificationRepository
	mailer        mailer.Mailer
}

func NewService(
	admins repositories.AdminRepository,
	users repositories.UserRepository,
	ledger repositories.LedgerRepository,
	verifications repositories.VerificationRepository,
	m mailer.Mailer,
) Service {
	if admins == nil || users == nil || ledger == nil || verifications == nil {
		panic("admin service repositories are required")
	}
	return &service{
		admins:        admins,
		users:         users,
		ledger:        ledger,
		verifications: verifications,
		mailer:        m,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	email = validation.SanitizeEmail(email)
	if email == "" || password == "" {
		return "", apperr.Validation("Invalid email or password")
	}

	admin, err := s.admins.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return "", apperr.Authentication("Invalid email or password")
		}
		return "", apperr.Internal("failed to load admin", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", apperr.Authentication("Invalid email or password")
	}

	if !admin.IsVerified {
		return "", apperr.Authentication("Account has not been verified")
	}

	token, err := utils.GenerateToken(admin.ID, models.RoleAdmin, tokenTTL)
	if err != nil {
		return "", apperr.Internal("failed to sign token", err)
	}
	return token, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.PublicAdmin, string, error) {
	email := validation.SanitizeEmail(input.Email)

	if !validation.IsValidEmail(email) {
		return nil, "", apperr.Validation("Invalid email address")
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, "", apperr.Validation("Password must be at least 8 characters")
	}
	if input.Password != input.ConfirmPassword {
		return nil, "", apperr.Validation("Password and confirm password do not match")
	}

	if _, err := s.admins.GetByEmail(email); err == nil {
		return nil, "", apperr.Conflict("Admin already exists")
	} else if !errors.Is(err, repositories.ErrAdminNotFound) {
		return nil, "", apperr.Internal("failed to check existing admin", err)
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return nil, "", apperr.Internal("failed to generate OTP", err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, email, otp); err != nil {
		return nil, "", apperr.Dependency("Failed to send verification email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal("failed to hash password", err)
	}

	admin := &models.Admin{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       email,
		Password:    string(hash),
		PhoneNumber: input.PhoneNumber,
		Role:        models.RoleAdmin,
		IsVerified:  false,
	}
	if err := s.admins.Create(admin); err != nil {
		return nil, "", apperr.Internal("failed to create admin", err)
	}

	if err := s.verifications.Replace(&models.Verification{
		Email:     email,
		OTP:       otp,
		ExpiresAt: time.Now().Add(otpTTL),
	}); err != nil {
		return nil, "", apperr.Internal("failed to store verification code", err)
	}

	token, err := utils.GenerateToken(admin.ID, models.RoleAdmin, tokenTTL)
	if err != nil {
		return nil, "", apperr.Internal("failed to sign token", err)
	}

	public := admin.Public()
	return &public, token, nil
}

func (s *service) DashboardData(ctx context.Context) (*DashboardData, error) {
	totalUsers, err := s.users.Count()
	if err != nil {
		return nil, apperr.Internal("failed to count users", err)
	}
	verifiedUsers, err := s.users.CountVerified()
	if err != nil {
		return nil, apperr.Internal("failed to count verified users", err)
	}
	totalBalance, err := s.users.TotalWalletBalance()
	if err != nil {
		return nil, apperr.Internal("failed to sum balances", err)
	}
	pending, err := s.ledger.CountPendingFundingRequests()
	if err != nil {
		return nil, apperr.Internal("failed to count pending requests", err)
	}
	volume, err := s.ledger.TransactionVolume()
	if err != nil {
		return nil, apperr.Internal("failed to sum transaction volume", err)
	}

	return &DashboardData{
		TotalUsers:             totalUsers,
		VerifiedUsers:          verifiedUsers,
		TotalWalletBalance:     totalBalance,
		PendingFundingRequests: pending,
		TransactionVolume:      volume,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, newestFirst bool) ([]models.PublicUser, error) {
	users, err := s.users.List(newestFirst)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

func (s *service) PendingFundingRequests(ctx context.Context) ([]models.FundingRequest, error) {
	requests, err := s.ledger.ListPendingFundingRequests()
	if err != nil {
		return nil, apperr.Internal("failed to list pending requests", err)
	}
	return requests, nil
}

func (s *service) AllTransactions(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.ledger.ListAllTransactions()
	if err != nil {
		return nil, apperr.Internal("failed to list transactions", err)
	}
	return transactions, nil
}
