package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/goliatone/go-errors"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks tokens that were invalidated before their
// natural expiry. Entries only need to live as long as the token
// itself, callers pass the remaining TTL on revocation.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenString string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

// Tokens are hashed before storage so the store never holds a usable
// credential.
func revocationKey(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// MemoryRevocationStore keeps revocations in process. Suited for a
// single instance deployment or tests.
type MemoryRevocationStore struct {
	cache *gocache.Cache
}

// NewMemoryRevocationStore creates an in memory store that sweeps
// expired entries every ten minutes.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing to track
		return nil
	}
	s.cache.Set(revocationKey(tokenString), struct{}{}, ttl)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenString string) (bool, error) {
	_, found := s.cache.Get(revocationKey(tokenString))
	return found, nil
}

// RedisRevocationStore shares revocations across instances.
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

// RedisRevocationConfig holds connection options for the redis store.
type RedisRevocationConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisRevocationStore connects to redis and verifies the
// connection before returning the store.
func NewRedisRevocationStore(config RedisRevocationConfig) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to connect to redis")
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = "revoked"
	}

	return &RedisRevocationStore{
		client: client,
		prefix: prefix,
	}, nil
}

// NewRedisRevocationStoreWithClient wraps an existing client, useful
// when the application already manages a redis connection.
func NewRedisRevocationStoreWithClient(client *redis.Client, prefix string) *RedisRevocationStore {
	if prefix == "" {
		prefix = "revoked"
	}
	return &RedisRevocationStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisRevocationStore) key(tokenString string) string {
	return s.prefix + ":" + revocationKey(tokenString)
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenString), "1", ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to persist revocation")
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenString)).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check revocation")
	}
	return n > 0, nil
}

// Close releases the underlying redis connection.
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}

var (
	_ RevocationStore = (*MemoryRevocationStore)(nil)
	_ RevocationStore = (*RedisRevocationStore)(nil)
)
