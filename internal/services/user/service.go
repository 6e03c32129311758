// Package user implements profile lookup, profile update with optional
// image upload, and account deletion.
package user

import (
	"context"
	"errors"
	"io"

	"github.com/skippergoroye/Accman-Server/internal/apperr"
	"github.com/skippergoroye/Accman-Server/internal/models"
	"github.com/skippergoroye/Accman-Server/internal/repositories"
	"github.com/skippergoroye/Accman-Server/internal/storage"
)

type UpdateInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
}

// ImageUpload carries an optional profile image from a multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UserCache is the read cache for user records. Profile mutations
// invalidate through it.
type UserCache interface {
	GetUser(ctx context.Context, userID uint) (*models.User, bool)
	SetUser(ctx context.Context, user *models.User)
	Invalidate(ctx context.Context, userID uint)
}

type Service interface {
	FindByID(ctx context.Context, id uint) (*models.PublicUser, error)
	Update(ctx context.Context, id uint, input UpdateInput, image *ImageUpload) (*models.PublicUser, error)
	// Delete removes an account: admins hard-delete, owners soft-delete,
	// anyone else is refused. It reports whether the delete was hard.
	Delete(ctx context.Context, id uint, requester *models.AuthClaims) (bool, error)
}

type service struct {
	users  repositories.UserRepository
	images storage.ImageStore
	cache  UserCache
}

// NewService creates a new user service. The image store and cache are
// optional; without a store, image uploads are rejected.
func NewService(users repositories.UserRepository, images storage.ImageStore, cache UserCache) Service {
	if users == nil {
		panic("user repository is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &service{users: users, images: images, cache: cache}
}

func (s *service) FindByID(ctx context.Context, id uint) (*models.PublicUser, error) {
	if user, ok := s.cache.GetUser(ctx, id); ok {
		public := user.Public()
		return &public, nil
	}

	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}

	s.cache.SetUser(ctx, user)
	public := user.Public()
	return &public, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput, image *ImageUpload) (*models.PublicUser, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}

	if image != nil {
		if s.images == nil {
			return nil, apperr.Validation("Image upload is not configured")
		}
		url, err := s.images.Upload(ctx, image.Filename, image.ContentType, image.Body)
		if err != nil {
			return nil, apperr.Dependency("Image upload failed", err)
		}
		user.Img = url
	}

	if err := s.users.Update(user); err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}

	s.cache.Invalidate(ctx, id)
	public := user.Public()
	return &public, nil
}

func (s *service) Delete(ctx context.Context, id uint, requester *models.AuthClaims) (bool, error) {
	if requester == nil {
		return false, apperr.Authentication("Missing credentials")
	}

	if _, err := s.users.GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return false, apperr.NotFound("User not found")
		}
		return false, apperr.Internal("failed to load user", err)
	}

	if requester.IsAdmin() {
		if err := s.users.HardDelete(id); err != nil {
			return false, apperr.Internal("failed to delete user", err)
		}
		s.cache.Invalidate(ctx, id)
		return true, nil
	}

	if requester.UserID == id {
		if err := s.users.SoftDelete(id); err != nil {
			return false, apperr.Internal("failed to delete user", err)
		}
		s.cache.Invalidate(ctx, id)
		return false, nil
	}

	return false, apperr.Authorization("Unauthorized to delete other users")
}

type noopCache struct{}

func (noopCache) GetUser(context.Context, uint) (*models.User, bool) { return nil, false }
func (noopCache) SetUser(context.Context, *models.User)              {}
func (noopCache) Invalidate(context.Context, uint)                   {}
