package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edu-dashboard-be/internal/entity"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "userProfile:"

func ProfileKey(userID string) string {
	return profileKeyPrefix + userID
}

// ProfileCache is the local last-known-good copy of a user's profile.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*entity.Profile, bool, error)
	Set(ctx context.Context, userID string, p *entity.Profile) error
	Delete(ctx context.Context, userID string) error
}

// cachedProfile is the serialized form stored under userProfile:<id>.
type cachedProfile struct {
	Name             string     `json:"name"`
	Standard         string     `json:"standard"`
	Subjects         []string   `json:"subjects"`
	ProfileCompleted bool       `json:"profileCompleted"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

func encodeProfile(p *entity.Profile) ([]byte, error) {
	return json.Marshal(cachedProfile{
		Name:             p.Name,
		Standard:         p.Standard,
		Subjects:         p.Subjects,
		ProfileCompleted: p.ProfileCompleted,
		UpdatedAt:        p.UpdatedAt,
	})
}

func decodeProfile(userID string, data []byte) (*entity.Profile, error) {
	var c cachedProfile
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &entity.Profile{
		UserId:           userID,
		Name:             c.Name,
		Standard:         c.Standard,
		Subjects:         c.Subjects,
		ProfileCompleted: c.ProfileCompleted,
		UpdatedAt:        c.UpdatedAt,
	}, nil
}

type RedisProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProfileCache(rdb *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb, ttl: ttl}
}

func (c *RedisProfileCache) Get(ctx context.Context, userID string) (*entity.Profile, bool, error) {
	data, err := c.rdb.Get(ctx, ProfileKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get profile: %w", err)
	}
	p, err := decodeProfile(userID, data)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached profile: %w", err)
	}
	return p, true, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, userID string, p *entity.Profile) error {
	data, err := encodeProfile(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return c.rdb.Set(ctx, ProfileKey(userID), data, c.ttl).Err()
}

func (c *RedisProfileCache) Delete(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, ProfileKey(userID)).Err()
}

// MemoryProfileCache keeps the serialized profile in process memory. Used
// when Redis is unreachable and in tests.
type MemoryProfileCache struct {
	cache *cache.Cache
}

func NewMemoryProfileCache(ttl time.Duration) *MemoryProfileCache {
	return &MemoryProfileCache{cache: cache.New(ttl, 10*time.Minute)}
}

func (c *MemoryProfileCache) Get(_ context.Context, userID string) (*entity.Profile, bool, error) {
	x, found := c.cache.Get(ProfileKey(userID))
	if !found {
		return nil, false, nil
	}
	p, err := decodeProfile(userID, x.([]byte))
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (c *MemoryProfileCache) Set(_ context.Context, userID string, p *entity.Profile) error {
	data, err := encodeProfile(p)
	if err != nil {
		return err
	}
	c.cache.Set(ProfileKey(userID), data, cache.DefaultExpiration)
	return nil
}

func (c *MemoryProfileCache) Delete(_ context.Context, userID string) error {
	c.cache.Delete(ProfileKey(userID))
	return nil
}
