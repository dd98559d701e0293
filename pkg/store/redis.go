package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "refdag:graph:"

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string
	// Password is optional.
	Password string
	// DB selects the Redis logical database.
	DB int
	// TTL, when non-zero, expires records after the given duration.
	TTL time.Duration
}

// Redis stores records as JSON values under a shared key prefix. Suitable
// for multi-instance deployments where several servers share one backend.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: cfg.TTL}, nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (r *Redis) Put(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(rec.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set record: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*Record, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &rec, nil
}

func (r *Redis) List(ctx context.Context) ([]*Record, error) {
	var out []*Record
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue // expired between scan and get
			}
			return nil, fmt.Errorf("get record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) Close(ctx context.Context) error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
