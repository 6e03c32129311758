// Package auth implements user registration with email OTP
// verification, login and the password-reset flow.
package auth

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

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL     = 10 * time.Minute
	resetTTL   = 15 * time.Minute
	defaultTTL = 24 * time.Hour
)

type RegisterInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.PublicUser, string, error)
	VerifyEmail(ctx context.Context, email, otp string) error
	Login(ctx context.Context, email, password string) (*models.PublicUser, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type service struct {
	users         repositories.UserRepository
	admins        repositories.AdminRepository
	verifications repositories.VerificationRepository
	mailer        mailer.Mailer
	clientURL     string
	tokenTTL      time.Duration
}

func NewService(
	users repositories.UserRepository,
	admins repositories.AdminRepository,
	verifications repositories.VerificationRepository,
	m mailer.Mailer,
	clientURL string,
) Service {
	if users == nil || verifications == nil {
		panic("user and verification repositories are required")
	}
	if m == nil {
		panic("mailer is required")
	}
	return &service{
		users:         users,
		admins:        admins,
		verifications: verifications,
		mailer:        m,
		clientURL:     clientURL,
		tokenTTL:      defaultTTL,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.PublicUser, string, error) {
	email := validation.SanitizeEmail(input.Email)

	if input.FirstName == "" || input.LastName == "" {
		return nil, "", apperr.Validation("First name and last name are required")
	}
	if !validation.IsValidEmail(email) {
		return nil, "", apperr.Validation("Invalid email address")
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, "", apperr.Validation("Password must be at least 8 characters")
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, "", apperr.Conflict("User already exists")
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, "", apperr.Internal("failed to check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal("failed to hash password", err)
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return nil, "", apperr.Internal("failed to generate OTP", err)
	}

	// Mail delivery is a precondition for account creation: if the
	// OTP cannot reach the address, no account row is written.
	if err := s.mailer.SendVerificationEmail(ctx, email, otp); err != nil {
		return nil, "", apperr.Dependency("Failed to send verification email", err)
	}

	user := &models.User{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         email,
		Password:      string(hash),
		PhoneNumber:   input.PhoneNumber,
		Role:          models.RoleUser,
		IsVerified:    false,
		WalletBalance: 0,
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", apperr.Internal("failed to create user", err)
	}

	if err := s.verifications.Replace(&models.Verification{
		Email:     email,
		OTP:       otp,
		ExpiresAt: time.Now().Add(otpTTL),
	}); err != nil {
		return nil, "", apperr.Internal("failed to store verification code", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, "", apperr.Internal("failed to sign token", err)
	}

	public := user.Public()
	return &public, token, nil
}

// VerifyEmail consumes a matching, unexpired code and marks the account
// verified. The same endpoint serves both users and admins since codes
// are keyed by email.
func (s *service) VerifyEmail(ctx context.Context, email, otp string) error {
	email = validation.SanitizeEmail(email)
	if !validation.IsValidOTP(otp) {
		return apperr.Validation("Invalid OTP format")
	}

	v, err := s.verifications.GetByEmailAndOTP(email, otp)
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationNotFound) {
			return apperr.Validation("Invalid OTP")
		}
		return apperr.Internal("failed to look up verification code", err)
	}

	if v.Expired(time.Now()) {
		// Expired codes are removed on sight so they cannot be retried.
		if err := s.verifications.Delete(v.ID); err != nil {
			return apperr.Internal("failed to delete expired code", err)
		}
		return apperr.Validation("OTP has expired")
	}

	if err := s.markVerified(email); err != nil {
		return err
	}

	if err := s.verifications.Delete(v.ID); err != nil {
		return apperr.Internal("failed to consume verification code", err)
	}
	return nil
}

func (s *service) markVerified(email string) error {
	err := s.users.MarkVerified(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return apperr.Internal("failed to mark user verified", err)
	}
	if s.admins == nil {
		return apperr.NotFound("Account not found")
	}
	if err := s.admins.MarkVerified(email); err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return apperr.NotFound("Account not found")
		}
		return apperr.Internal("failed to mark admin verified", err)
	}
	return nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.PublicUser, string, error) {
	email = validation.SanitizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperr.Validation("Email and password are required")
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", apperr.Authentication("Invalid email or password")
		}
		return nil, "", apperr.Internal("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.Authentication("Invalid email or password")
	}

	if !user.IsVerified {
		return nil, "", apperr.Authentication("Account has not been verified")
	}
	if user.Blocked {
		return nil, "", apperr.Authorization("Account is blocked")
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, "", apperr.Internal("failed to sign token", err)
	}

	public := user.Public()
	return &public, token, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = validation.SanitizeEmail(email)

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("failed to load user", err)
	}

	token := uuid.NewString()
	if err := s.users.SetResetToken(user.ID, token, time.Now().Add(resetTTL)); err != nil {
		return apperr.Internal("failed to store reset token", err)
	}

	link := s.clientURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordResetEmail(ctx, email, link); err != nil {
		return apperr.Dependency("Failed to send password reset email", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperr.Validation("Reset token is required")
	}
	if !validation.IsValidPassword(newPassword) {
		return apperr.Validation("Password must be at least 8 characters")
	}

	user, err := s.users.GetByResetToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperr.Validation("Invalid or expired reset token")
		}
		return apperr.Internal("failed to look up reset token", err)
	}

	if user.ResetTokenExpires == nil || !user.ResetTokenExpires.After(time.Now()) {
		return apperr.Validation("Invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	// UpdatePassword also clears the reset token so a link is single use.
	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return apperr.Internal("failed to update password", err)
	}
	return nil
}
