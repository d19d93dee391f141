package persist

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores blobs in Redis, letting persisted client state survive
// across hosts. Blobs never expire; explicit Delete is the only way a
// key disappears.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithPrefix namespaces all storage keys, e.g. per tenant or user.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis creates a Redis-backed store.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load retrieves the blob stored under key.
func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save writes the blob under key.
func (r *Redis) Save(ctx context.Context, key string, blob []byte) error {
	return r.client.Set(ctx, r.key(key), blob, 0).Err()
}

// Delete removes the blob under key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var _ Store = (*Redis)(nil)
