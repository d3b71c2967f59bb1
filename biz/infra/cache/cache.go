package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cmdable 直接复用go-redis的命令接口
type Cmdable = redis.Cmdable

// Nil 键不存在
var Nil = redis.Nil

// Store 控制面使用的窄接口, 便于内存实现
type Store interface {
	// Get 获取键值, 不存在时返回Nil
	Get(ctx context.Context, key string) (string, error)
	// SetEx 设置键值与过期时间
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	// Del 删除若干键
	Del(ctx context.Context, keys ...string) error
	// IncrEx 自增并在首次自增时设置过期时间, 返回自增后的值
	IncrEx(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// TTL 剩余过期时间
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type redisStore struct {
	cmd Cmdable
}

// NewStore 基于redis命令接口构造Store
func NewStore(cmd Cmdable) Store {
	return &redisStore{cmd: cmd}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	return s.cmd.Get(ctx, key).Result()
}

func (s *redisStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.cmd.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return s.cmd.Del(ctx, keys...).Err()
}

func (s *redisStore) IncrEx(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	p := s.cmd.Pipeline()
	incr := p.Incr(ctx, key)
	p.ExpireNX(ctx, key, ttl)
	if _, err := p.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *redisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	return s.cmd.TTL(ctx, key).Result()
}
