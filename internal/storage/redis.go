package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const extractedKeyPrefix = "extracted:"

// RedisStore marks queries as recently extracted so repeated requests inside
// the TTL are served from Postgres instead of re-driving the browser.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// runKey hashes the query plus platform list into a safe, fixed-size key.
func runKey(query string, platforms []string) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte("|"))
	h.Write([]byte(strings.Join(platforms, ",")))
	return fmt.Sprintf("%s%s", extractedKeyPrefix, hex.EncodeToString(h.Sum(nil)))
}

// MarkExtracted sets the freshness marker for a query with a TTL.
func (s *RedisStore) MarkExtracted(ctx context.Context, query string, platforms []string, ttl time.Duration) error {
	return s.client.Set(ctx, runKey(query, platforms), "1", ttl).Err()
}

// IsRecentlyExtracted checks whether a query was extracted within the TTL.
func (s *RedisStore) IsRecentlyExtracted(ctx context.Context, query string, platforms []string) (bool, error) {
	val, err := s.client.Exists(ctx, runKey(query, platforms)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}
