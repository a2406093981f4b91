package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tasklist/internal/model"
)

const defaultRedisPrefix = "tasklist:"

// RedisRepository keeps named records as plain Redis strings under a key prefix.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load record %q: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisRepository) Save(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return storageFailure("save record", key, err)
	}
	return nil
}

// SaveAll writes every record in one MULTI/EXEC block.
func (r *RedisRepository) SaveAll(ctx context.Context, records ...model.Record) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, rec := range records {
			pipe.Set(ctx, r.prefix+rec.Name, rec.Value, 0)
		}
		return nil
	})
	if err != nil {
		return storageFailure("save records", joinKeys(records), err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
