package tokens

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenRevoked means the jti is unknown, expired, or was already consumed
// by a previous rotation.
var ErrTokenRevoked = errors.New("refresh token revoked or unknown")

const keyPrefix = "taskhive:refresh:"

// Store keeps an allow-list of outstanding refresh-token jtis in Redis. A jti
// is good for exactly one refresh; rotation consumes it.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Save(ctx context.Context, jti string, userID uint) error {
	return s.client.Set(ctx, keyPrefix+jti, strconv.FormatUint(uint64(userID), 10), s.ttl).Err()
}

// Consume atomically fetches and deletes the jti, returning the user it was
// issued to.
func (s *Store) Consume(ctx context.Context, jti string) (uint, error) {
	value, err := s.client.GetDel(ctx, keyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenRevoked
	}
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, ErrTokenRevoked
	}

	return uint(userID), nil
}

func (s *Store) Revoke(ctx context.Context, jti string) error {
	return s.client.Del(ctx, keyPrefix+jti).Err()
}
