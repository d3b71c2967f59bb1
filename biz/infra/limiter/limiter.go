package limiter

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
)

/* 按用户限流, 分钟窗口与短突发窗口叠加 */

const minuteWindow = time.Minute

// Result 一次限流判定的结果, Reset为窗口重置的unix秒
type Result struct {
	Allowed   bool
	Remaining int64
	Reset     int64
}

type Limiter struct {
	store cache.Store
	conf  config.RateLimit
	now   func() time.Time
}

func New(store cache.Store, conf config.RateLimit) *Limiter {
	return &Limiter{store: store, conf: conf, now: time.Now}
}

// Allow 判定uid在当前窗口内是否放行
// 先读计数再判定, 被拒绝的请求不消耗窗口
// 存储不可用时放行, 限流被降级但对话不受影响
func (l *Limiter) Allow(ctx context.Context, uid string) *Result {
	burst, err := l.count(ctx, cst.RateBurstPrefix+uid)
	if err != nil {
		return l.failOpen(err)
	}
	minute, err := l.count(ctx, cst.RateLimitPrefix+uid)
	if err != nil {
		return l.failOpen(err)
	}

	allowed := minute < int64(l.conf.PerMinute) && burst < int64(l.conf.Burst)
	if allowed {
		burstWindow := time.Duration(l.conf.BurstWindowS) * time.Second
		if burst, err = l.store.IncrEx(ctx, cst.RateBurstPrefix+uid, burstWindow); err != nil {
			return l.failOpen(err)
		}
		if minute, err = l.store.IncrEx(ctx, cst.RateLimitPrefix+uid, minuteWindow); err != nil {
			return l.failOpen(err)
		}
	}

	remaining := int64(l.conf.PerMinute) - minute
	if remaining < 0 {
		remaining = 0
	}
	ttl, err := l.store.TTL(ctx, cst.RateLimitPrefix+uid)
	if err != nil || ttl < 0 {
		ttl = minuteWindow
	}
	return &Result{
		Allowed:   allowed,
		Remaining: remaining,
		Reset:     l.now().Add(ttl).Unix(),
	}
}

// count 读取窗口当前计数, 键不存在按0
func (l *Limiter) count(ctx context.Context, key string) (int64, error) {
	v, err := l.store.Get(ctx, key)
	if errors.Is(err, cache.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (l *Limiter) failOpen(err error) *Result {
	logs.Warnf("[limiter] store unavailable, fail open: %s", errorx.ErrorWithoutStack(err))
	return &Result{Allowed: true, Remaining: int64(l.conf.PerMinute), Reset: l.now().Add(minuteWindow).Unix()}
}
