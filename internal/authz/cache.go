package authz

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

// Cache holds resolved effective permissions per user. A miss returns ok=false.
//
// Every Invalidate bumps the user's version. Get returns the version current at
// read time and Set stores only if the version is still the same, so a set
// resolved before an invalidation can never be written back after it.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) (perms []models.Permission, version int64, ok bool, err error)
	Set(ctx context.Context, userID uuid.UUID, version int64, perms []models.Permission) error
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}

const (
	redisKeyPrefix = "authz:perms:"
	redisVerPrefix = "authz:ver:"

	// versionTTL only has to outlive any single resolution.
	versionTTL = 24 * time.Hour
)

// setIfVersion writes KEYS[1] only while KEYS[2] still holds ARGV[1].
var setIfVersion = redis.NewScript(`
local v = redis.call('GET', KEYS[2]) or '0'
if v ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// RedisCache stores permission sets as JSON strings with a TTL.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisCache creates a cache backed by rdb.
func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func redisKey(userID uuid.UUID) string {
	return redisKeyPrefix + userID.String()
}

func redisVerKey(userID uuid.UUID) string {
	return redisVerPrefix + userID.String()
}

func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) ([]models.Permission, int64, bool, error) {
	vals, err := c.rdb.MGet(ctx, redisKey(userID), redisVerKey(userID)).Result()
	if err != nil {
		return nil, 0, false, err
	}
	var version int64
	if s, ok := vals[1].(string); ok {
		if version, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, 0, false, err
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, version, false, nil
	}
	var perms []models.Permission
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		return nil, version, false, err
	}
	return perms, version, true, nil
}

func (c *RedisCache) Set(ctx context.Context, userID uuid.UUID, version int64, perms []models.Permission) error {
	if perms == nil {
		perms = []models.Permission{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	return setIfVersion.Run(ctx, c.rdb,
		[]string{redisKey(userID), redisVerKey(userID)},
		strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds(),
	).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, redisVerKey(id))
			pipe.Expire(ctx, redisVerKey(id), versionTTL)
			pipe.Del(ctx, redisKey(id))
		}
		return nil
	})
	return err
}

// MemoryCache is a size-bounded in-process LRU with per-entry expiry.
// Only suitable for single-instance deployments: invalidations are not shared.
type MemoryCache struct {
	mu       sync.Mutex
	lru      *expirable.LRU[uuid.UUID, []models.Permission]
	versions map[uuid.UUID]int64
}

// NewMemoryCache creates an in-process cache holding at most size users.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru:      expirable.NewLRU[uuid.UUID, []models.Permission](size, nil, ttl),
		versions: make(map[uuid.UUID]int64),
	}
}

func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) ([]models.Permission, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	version := c.versions[userID]
	perms, ok := c.lru.Get(userID)
	if !ok {
		return nil, version, false, nil
	}
	return append([]models.Permission(nil), perms...), version, true, nil
}

func (c *MemoryCache) Set(_ context.Context, userID uuid.UUID, version int64, perms []models.Permission) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[userID] != version {
		return nil
	}
	c.lru.Add(userID, append([]models.Permission(nil), perms...))
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, userIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		c.versions[id]++
		c.lru.Remove(id)
	}
	return nil
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, uuid.UUID) ([]models.Permission, int64, bool, error) {
	return nil, 0, false, nil
}

func (NopCache) Set(context.Context, uuid.UUID, int64, []models.Permission) error { return nil }

func (NopCache) Invalidate(context.Context, ...uuid.UUID) error { return nil }
