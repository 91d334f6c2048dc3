package feed

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/recycleview/pkg/errors"
)

// Redis reads cards from a Redis list. Each element is one JSON-encoded
// card; the list order is the feed order.
type Redis struct {
	client *redis.Client
	key    string
	owned  bool
}

// NewRedis returns a loader reading key through an existing client.
// Close leaves the client open.
func NewRedis(client *redis.Client, key string) (*Redis, error) {
	if err := errors.ValidateName("redis key", key); err != nil {
		return nil, err
	}
	return &Redis{client: client, key: key}, nil
}

// OpenRedis connects to addr and returns a loader for key. The connection
// is checked with PING.
func OpenRedis(ctx context.Context, addr, key string) (*Redis, error) {
	if addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidFeed, "redis feed requires an address")
	}
	if err := errors.ValidateName("redis key", key); err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", addr)
	}
	return &Redis{client: client, key: key, owned: true}, nil
}

func (r *Redis) Kind() string     { return KindRedis }
func (r *Redis) Location() string { return r.client.Options().Addr + "/" + r.key }

// Close closes the client if OpenRedis created it.
func (r *Redis) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}

// Load reads the whole list with LRANGE.
func (r *Redis) Load(ctx context.Context) ([]Card, error) {
	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "lrange %s", r.key)
	}
	return decodeElements(values)
}

func decodeElements(values []string) ([]Card, error) {
	cards := make([]Card, len(values))
	for i, v := range values {
		if err := json.Unmarshal([]byte(v), &cards[i]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode element %d", i)
		}
	}
	return normalize(cards), nil
}
