package user

import (
	"context"
	"errors"
	"io"
	"strings"
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

type fakeImageStore struct {
	url string
	err error
}

func (f *fakeImageStore) Upload(_ context.Context, _, _ string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	io.Copy(io.Discard, body)
	return f.url, nil
}

func newFixture(t *testing.T, store *fakeImageStore) (Service, repositories.UserRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repositories.Migrate(db))

	users := repositories.NewUserRepository(db)
	if store == nil {
		return NewService(users, nil, nil), users, db
	}
	return NewService(users, store, nil), users, db
}

func seedUser(t *testing.T, users repositories.UserRepository) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:  "Alan",
		LastName:   "Turing",
		Email:      "alan@example.com",
		Password:   "hashed",
		Role:       models.RoleUser,
		IsVerified: true,
	}
	require.NoError(t, users.Create(user))
	return user
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newFixture(t, nil)
	user := seedUser(t, users)

	t.Run("found", func(t *testing.T) {
		public, err := svc.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alan@example.com", public.Email)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.FindByID(ctx, 999)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		svc, users, _ := newFixture(t, nil)
		user := seedUser(t, users)

		public, err := svc.Update(ctx, user.ID, UpdateInput{PhoneNumber: "08012345678"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "08012345678", public.PhoneNumber)
		assert.Equal(t, "Alan", public.FirstName)
	})

	t.Run("image upload sets the profile url", func(t *testing.T) {
		store := &fakeImageStore{url: "https://cdn.example.com/profile/1.png"}
		svc, users, _ := newFixture(t, store)
		user := seedUser(t, users)

		public, err := svc.Update(ctx, user.ID, UpdateInput{}, &ImageUpload{
			Filename:    "avatar.png",
			ContentType: "image/png",
			Body:        strings.NewReader("png-bytes"),
		})
		require.NoError(t, err)
		assert.Equal(t, store.url, public.Img)
	})

	t.Run("upload failure surfaces as dependency error", func(t *testing.T) {
		store := &fakeImageStore{err: errors.New("bucket unreachable")}
		svc, users, _ := newFixture(t, store)
		user := seedUser(t, users)

		_, err := svc.Update(ctx, user.ID, UpdateInput{}, &ImageUpload{
			Filename: "avatar.png",
			Body:     strings.NewReader("png-bytes"),
		})
		assert.Equal(t, apperr.KindDependency, apperr.KindOf(err))
	})

	t.Run("upload without a configured store is rejected", func(t *testing.T) {
		svc, users, _ := newFixture(t, nil)
		user := seedUser(t, users)

		_, err := svc.Update(ctx, user.ID, UpdateInput{}, &ImageUpload{
			Filename: "avatar.png",
			Body:     strings.NewReader("png-bytes"),
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

type fakeUserCache struct {
	users map[uint]*models.User
}

func (c *fakeUserCache) GetUser(_ context.Context, userID uint) (*models.User, bool) {
	user, ok := c.users[userID]
	return user, ok
}

func (c *fakeUserCache) SetUser(_ context.Context, user *models.User) {
	c.users[user.ID] = user
}

func (c *fakeUserCache) Invalidate(_ context.Context, userID uint) {
	delete(c.users, userID)
}

func TestFindByIDCache(t *testing.T) {
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repositories.Migrate(db))

	users := repositories.NewUserRepository(db)
	cache := &fakeUserCache{users: map[uint]*models.User{}}
	svc := NewService(users, nil, cache)
	user := seedUser(t, users)

	// First read populates the cache, the second is served from it.
	_, err = svc.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Contains(t, cache.users, user.ID)

	cache.users[user.ID].FirstName = "Cached"
	public, err := svc.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", public.FirstName)

	// An update drops the stale entry.
	_, err = svc.Update(ctx, user.ID, UpdateInput{FirstName: "Fresh"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, cache.users, user.ID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner soft-deletes", func(t *testing.T) {
		svc, users, db := newFixture(t, nil)
		user := seedUser(t, users)

		hard, err := svc.Delete(ctx, user.ID, &models.AuthClaims{UserID: user.ID, Role: models.RoleUser})
		require.NoError(t, err)
		assert.False(t, hard)

		// Gone from default queries but the row survives.
		_, err = users.GetByID(user.ID)
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)

		var count int64
		require.NoError(t, db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("admin hard-deletes", func(t *testing.T) {
		svc, users, db := newFixture(t, nil)
		user := seedUser(t, users)

		hard, err := svc.Delete(ctx, user.ID, &models.AuthClaims{UserID: 42, Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.True(t, hard)

		var count int64
		require.NoError(t, db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("other users are refused", func(t *testing.T) {
		svc, users, _ := newFixture(t, nil)
		user := seedUser(t, users)

		_, err := svc.Delete(ctx, user.ID, &models.AuthClaims{UserID: user.ID + 1, Role: models.RoleUser})
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	})

	t.Run("missing claims", func(t *testing.T) {
		svc, users, _ := newFixture(t, nil)
		user := seedUser(t, users)

		_, err := svc.Delete(ctx, user.ID, nil)
		assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
	})
}
