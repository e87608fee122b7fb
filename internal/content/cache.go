package content

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayush/photo-portfolio/backend/internal/models"
)

const keyPrefix = "content:"

// Cache holds rendered content sections. Each section carries a
// generation that Invalidate bumps; Set only stores a value read at the
// current generation, so a read racing a write cannot repopulate the
// cache with the pre-write row.
type Cache interface {
	// Get returns the cached section, nil on a miss, and the generation
	// to hand back to Set.
	Get(ctx context.Context, section string) (*models.Content, int64, error)
	Set(ctx context.Context, c *models.Content, gen int64) error
	Invalidate(ctx context.Context, section string) error
}

// RedisCache stores sections as JSON under "content:<section>" and the
// generation under "content:gen:<section>". Section names never contain
// ':' so the two key spaces cannot collide.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func genKey(section string) string { return keyPrefix + "gen:" + section }

func (c *RedisCache) Get(ctx context.Context, section string) (*models.Content, int64, error) {
	vals, err := c.rdb.MGet(ctx, keyPrefix+section, genKey(section)).Result()
	if err != nil {
		return nil, 0, err
	}
	var gen int64
	if s, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, 0, err
		}
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var out models.Content
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, gen, err
	}
	return &out, gen, nil
}

// Set stores content unless the section was invalidated after gen was read.
func (c *RedisCache) Set(ctx context.Context, content *models.Content, gen int64) error {
	data, err := json.Marshal(content)
	if err != nil {
		return err
	}
	key := genKey(content.Section)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+content.Section, data, c.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisCache) Invalidate(ctx context.Context, section string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(section))
		pipe.Del(ctx, keyPrefix+section)
		return nil
	})
	return err
}

// noCache is used when no Redis address is configured.
type noCache struct{}

func (noCache) Get(context.Context, string) (*models.Content, int64, error) { return nil, 0, nil }
func (noCache) Set(context.Context, *models.Content, int64) error           { return nil }
func (noCache) Invalidate(context.Context, string) error                    { return nil }
