package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"talento/internal/config"
	"talento/internal/database"
	"talento/internal/models"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// Ping verifies the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// RedisBenefitRepository stores each benefit as a JSON value plus a per-
// employee id set, so benefits survive restarts when redis is around.
type RedisBenefitRepository struct {
	client *redis.Client
}

func NewRedisBenefitRepository(client *redis.Client) *RedisBenefitRepository {
	return &RedisBenefitRepository{client: client}
}

func benefitKey(id int64) string { return fmt.Sprintf("benefit:%d", id) }

func employeeSetKey(eid int64) string { return fmt.Sprintf("benefits:employee:%d", eid) }

const benefitSeqKey = "benefits:id_seq"

func (r *RedisBenefitRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]models.Benefit, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	ids, err := r.client.SMembers(ctx, employeeSetKey(employeeID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list benefit ids: %w", err)
	}

	var out []models.Benefit
	for _, id := range ids {
		val, err := r.client.Get(ctx, "benefit:"+id).Result()
		if err == redis.Nil {
			// Stale set member; drop it.
			r.client.SRem(ctx, employeeSetKey(employeeID), id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get benefit %s: %w", id, err)
		}
		var b models.Benefit
		if err := json.Unmarshal([]byte(val), &b); err != nil {
			return nil, fmt.Errorf("unmarshal benefit %s: %w", id, err)
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RedisBenefitRepository) Save(ctx context.Context, benefit *models.Benefit) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	if benefit.ID == 0 {
		id, err := r.client.Incr(ctx, benefitSeqKey).Result()
		if err != nil {
			return fmt.Errorf("allocate benefit id: %w", err)
		}
		benefit.ID = id
	}

	data, err := json.Marshal(benefit)
	if err != nil {
		return fmt.Errorf("marshal benefit: %w", err)
	}

	if err := r.client.Set(ctx, benefitKey(benefit.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("store benefit: %w", err)
	}
	if err := r.client.SAdd(ctx, employeeSetKey(benefit.EmployeeID), benefit.ID).Err(); err != nil {
		return fmt.Errorf("index benefit: %w", err)
	}
	return nil
}

func (r *RedisBenefitRepository) Delete(ctx context.Context, id int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	val, err := r.client.Get(ctx, benefitKey(id)).Result()
	if err == redis.Nil {
		return database.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get benefit %d: %w", id, err)
	}

	var b models.Benefit
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return fmt.Errorf("unmarshal benefit %d: %w", id, err)
	}

	if err := r.client.Del(ctx, benefitKey(id)).Err(); err != nil {
		return fmt.Errorf("delete benefit %d: %w", id, err)
	}
	r.client.SRem(ctx, employeeSetKey(b.EmployeeID), id)
	return nil
}

// RedisImportResultCache keeps the last import report per kind with a TTL,
// so the frontend can re-fetch the report after an upload.
type RedisImportResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisImportResultCache(client *redis.Client, ttl time.Duration) *RedisImportResultCache {
	return &RedisImportResultCache{client: client, ttl: ttl}
}

func importResultKey(kind string) string { return "import:last:" + kind }

func (c *RedisImportResultCache) SetLastResult(ctx context.Context, kind string, result *models.ImportResult) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal import result: %w", err)
	}
	if err := c.client.Set(ctx, importResultKey(kind), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store import result: %w", err)
	}
	return nil
}

func (c *RedisImportResultCache) GetLastResult(ctx context.Context, kind string) (*models.ImportResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := c.client.Get(ctx, importResultKey(kind)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get import result: %w", err)
	}

	var result models.ImportResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("unmarshal import result: %w", err)
	}
	return &result, nil
}
