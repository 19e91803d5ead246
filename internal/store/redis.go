package store

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/2beens/kneerehab/internal/telemetry/tracing"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ Backend = (*RedisBackend)(nil)

type RedisParams struct {
	// Socket takes precedence over Host/Port when set.
	Socket    string
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisBackend stores slots in a local redis instance, one string key per slot.
type RedisBackend struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisClient(params RedisParams) *redis.Client {
	opts := &redis.Options{
		Addr:     net.JoinHostPort(params.Host, params.Port),
		Password: params.Password,
		DB:       params.DB,
	}
	if params.Socket != "" {
		opts.Network = "unix"
		opts.Addr = params.Socket
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(redisotel.NewTracingHook())
	return rdb
}

func NewRedisBackend(ctx context.Context, rdb *redis.Client, keyPrefix string) *RedisBackend {
	if err := rdb.Ping(ctx).Err(); err != nil {
		// not fatal, every later read falls back to defaults
		log.Errorf("--> failed to ping redis: %s", err)
	}

	return &RedisBackend{
		redisClient: rdb,
		keyPrefix:   keyPrefix,
	}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.get")
	defer func() {
		if errors.Is(err, ErrNotFound) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	value, err := r.redisClient.Get(ctx, r.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get [%s]: %w", key, err)
	}
	return value, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	if err := r.redisClient.Set(ctx, r.keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set [%s]: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.redisClient.Close()
}
