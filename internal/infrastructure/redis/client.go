package redis

import (
	"context"
	"log/slog"
	"time"

	stderrors "errors"

	"github.com/honeynil/bankfront/internal/infrastructure/observability"
	"github.com/redis/go-redis/v9"
)

var ErrKeyNotFound = stderrors.New("key not found")

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks . RedisClient

// RedisClient is the key/value surface the session stores need.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Del(ctx context.Context, key string) error
	Close() error
}

type Client struct {
	client *redis.Client
}

// NewClient connects and pings addr; it fails instead of panicking so the
// server can report a bad REDIS_ADDR.
func NewClient(ctx context.Context, addr string) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to connect to Redis", "addr", addr, "error", err)
		client.Close()
		return nil, err
	}

	slog.Info("connected to Redis", "addr", addr)
	return &Client{client: client}, nil
}

// observe records one command under the repository metrics.
func observe(method string, start time.Time, err *error) {
	status := "success"
	if *err != nil && !stderrors.Is(*err, ErrKeyNotFound) {
		status = "error"
	}
	observability.RepositoryCalls.WithLabelValues(method, status).Inc()
	observability.RepositoryDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (c *Client) Get(ctx context.Context, key string) (val string, err error) {
	defer observe("redis.Get", time.Now(), &err)
	val, err = c.client.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) (err error) {
	defer observe("redis.Set", time.Now(), &err)
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Expire resets the time to live of key. A missing key is ErrKeyNotFound.
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) (err error) {
	defer observe("redis.Expire", time.Now(), &err)
	ok, err := c.client.Expire(ctx, key, expiration).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyNotFound
	}
	return nil
}

func (c *Client) Del(ctx context.Context, key string) (err error) {
	defer observe("redis.Del", time.Now(), &err)
	return c.client.Del(ctx, key).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
