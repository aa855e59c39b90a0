package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore wraps the Redis client with the primitives the challenge state
// needs: hashes for records, a sorted set for the leaderboard index, sets for
// day membership and plain keys for cached views. Single-key operations are
// atomic; multi-key sequences are not transactional.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ctx: context.Background(),
	}
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *RedisStore) HGetAll(key string) (map[string]string, error) {
	return s.client.HGetAll(s.ctx, key).Result()
}

// HGet returns one hash field, or "" if the field or key does not exist.
func (s *RedisStore) HGet(key, field string) (string, error) {
	val, err := s.client.HGet(s.ctx, key, field).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// HSet writes the given fields of a hash.
func (s *RedisStore) HSet(key string, fields map[string]interface{}) error {
	return s.client.HSet(s.ctx, key, fields).Err()
}

// HIncrBy atomically increments a hash field and returns the new value.
func (s *RedisStore) HIncrBy(key, field string, incr int64) (int64, error) {
	return s.client.HIncrBy(s.ctx, key, field, incr).Result()
}

// SAddIsNew adds a member to a set and reports whether it was not already
// present. This is the idempotence gate for per-day check-in counting.
func (s *RedisStore) SAddIsNew(key string, member interface{}) (bool, error) {
	added, err := s.client.SAdd(s.ctx, key, member).Result()
	return added > 0, err
}

// SCard returns the number of members in a set.
func (s *RedisStore) SCard(key string) (int64, error) {
	return s.client.SCard(s.ctx, key).Result()
}

// SIsMember checks set membership.
func (s *RedisStore) SIsMember(key string, member interface{}) (bool, error) {
	return s.client.SIsMember(s.ctx, key, member).Result()
}

// ZAdd upserts a member with the given score.
func (s *RedisStore) ZAdd(key string, score float64, member string) error {
	return s.client.ZAdd(s.ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRem removes a member from a sorted set.
func (s *RedisStore) ZRem(key string, member string) error {
	return s.client.ZRem(s.ctx, key, member).Err()
}

// ZRevRange returns members ordered by score descending.
func (s *RedisStore) ZRevRange(key string, start, stop int64) ([]string, error) {
	return s.client.ZRevRange(s.ctx, key, start, stop).Result()
}

// Get retrieves a plain value; nil means the key does not exist.
func (s *RedisStore) Get(key string) ([]byte, error) {
	val, err := s.client.Get(s.ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

// Set stores a plain value with a TTL.
func (s *RedisStore) Set(key string, value []byte, ttl time.Duration) error {
	return s.client.Set(s.ctx, key, value, ttl).Err()
}

// Del removes keys.
func (s *RedisStore) Del(keys ...string) error {
	return s.client.Del(s.ctx, keys...).Err()
}

// Expire sets a key's time to live.
func (s *RedisStore) Expire(key string, ttl time.Duration) error {
	return s.client.Expire(s.ctx, key, ttl).Err()
}

// Ping checks if Redis is alive.
func (s *RedisStore) Ping() error {
	return s.client.Ping(s.ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
