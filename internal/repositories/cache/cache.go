// Package cache provides the Redis-backed read cache for balances and
// user records. Every balance mutation must invalidate through here.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/skippergoroye/Accman-Server/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client from config.
func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewService(client *redis.Client, ttl time.Duration) *Service {
	return &Service{client: client, ttl: ttl}
}

func balanceKey(userID uint) string { return fmt.Sprintf("balance:%d", userID) }
func userKey(userID uint) string    { return fmt.Sprintf("user:%d", userID) }

// GetBalance returns the cached balance and whether it was present.
func (s *Service) GetBalance(ctx context.Context, userID uint) (float64, bool) {
	val, err := s.client.Get(ctx, balanceKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	balance, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return balance, true
}

func (s *Service) SetBalance(ctx context.Context, userID uint, balance float64) {
	err := s.client.Set(ctx, balanceKey(userID), strconv.FormatFloat(balance, 'f', -1, 64), s.ttl).Err()
	if err != nil {
		log.Printf("cache: failed to set balance for user %d: %v", userID, err)
	}
}

// Invalidate drops every cached entry for the user.
func (s *Service) Invalidate(ctx context.Context, userID uint) {
	if err := s.client.Del(ctx, balanceKey(userID), userKey(userID)).Err(); err != nil {
		log.Printf("cache: failed to invalidate user %d: %v", userID, err)
	}
}

func (s *Service) GetUser(ctx context.Context, userID uint) (*models.User, bool) {
	raw, err := s.client.Get(ctx, userKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (s *Service) SetUser(ctx context.Context, user *models.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, userKey(user.ID), raw, s.ttl).Err(); err != nil {
		log.Printf("cache: failed to set user %d: %v", user.ID, err)
	}
}

// FlushAll clears the cache, used on startup so stale balances never
// survive a deploy.
func (s *Service) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *Service) Close() error {
	return s.client.Close()
}
