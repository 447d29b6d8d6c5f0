package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPrefix is the default key prefix.
const RedisPrefix = "svgpng"

// RedisStore keeps the list as a JSON string in Redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the server at `url` (redis://host:port/db).
func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if prefix == "" {
		prefix = RedisPrefix
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client, key: prefix + ":" + Key}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]Entry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return unmarshal(data)
}

func (s *RedisStore) Save(ctx context.Context, entries []Entry) error {
	data, err := marshal(entries)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set history: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
