package redis

import (
	"github.com/redis/go-redis/v9"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
)

// New 根据配置创建redis客户端
func New(c *config.Config) cache.Cmdable {
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}
