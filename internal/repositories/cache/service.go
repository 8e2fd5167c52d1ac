package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tavara/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// Key generation
func UserKey(id uint) string {
	return fmt.Sprintf("user:id:%d", id)
}

func AgencyStatusKey(agencyID uint) string {
	return fmt.Sprintf("agency:status:%d", agencyID)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, UserKey(user.ID), user)
}

func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, key, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.Delete(ctx, UserKey(userID))
}

// Agency status projection caching. The projection is read on every public
// directory page, so it gets a short TTL and is invalidated on every
// decision write.
func (s *CacheService) CacheAgencyStatus(ctx context.Context, agencyID uint, status interface{}) error {
	return s.SetWithTTL(ctx, AgencyStatusKey(agencyID), status, 5*time.Minute)
}

func (s *CacheService) GetAgencyStatus(ctx context.Context, agencyID uint, dest interface{}) (bool, error) {
	return s.Get(ctx, AgencyStatusKey(agencyID), dest)
}

func (s *CacheService) InvalidateAgencyStatus(ctx context.Context, agencyID uint) error {
	return s.Delete(ctx, AgencyStatusKey(agencyID))
}
