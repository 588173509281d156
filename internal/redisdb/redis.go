package redisdb

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// Options controls how the Redis connection behind the document store
// adapter is initialised.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Open establishes a Redis client and verifies connectivity with a ping.
func Open(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, eris.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrapf(err, "pinging redis at %s", opts.Addr)
	}

	return client, nil
}

// Close releases the underlying connection pool.
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}

	if err := client.Close(); err != nil {
		return eris.Wrap(err, "closing redis client")
	}

	return nil
}
