package redis

import (
	"context"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient builds a Redis client. The caller owns it and must Close it.
func NewClient(opts Options) *redisv9.Client {
	return redisv9.NewClient(&redisv9.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// Ping checks the server answers within two seconds.
func Ping(ctx context.Context, client *redisv9.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}
