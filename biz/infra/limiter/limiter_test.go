package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache/memory"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
)

func newTestLimiter(conf config.RateLimit) (*Limiter, *time.Time) {
	now := time.Unix(1700000000, 0)
	store := memory.NewWithClock(func() time.Time { return now })
	l := New(store, conf)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(config.RateLimit{PerMinute: 3, Burst: 10, BurstWindowS: 10})
	ctx := context.Background()

	r := l.Allow(ctx, "u1")
	require.True(t, r.Allowed)
	assert.Equal(t, int64(2), r.Remaining)
	assert.Greater(t, r.Reset, int64(0))
}

func TestMinuteWindowExceeded(t *testing.T) {
	l, _ := newTestLimiter(config.RateLimit{PerMinute: 2, Burst: 10, BurstWindowS: 10})
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "u1").Allowed)
	require.True(t, l.Allow(ctx, "u1").Allowed)
	r := l.Allow(ctx, "u1")
	assert.False(t, r.Allowed)
	assert.Equal(t, int64(0), r.Remaining)
}

func TestBurstWindowExceeded(t *testing.T) {
	l, _ := newTestLimiter(config.RateLimit{PerMinute: 100, Burst: 2, BurstWindowS: 10})
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "u1").Allowed)
	require.True(t, l.Allow(ctx, "u1").Allowed)
	r := l.Allow(ctx, "u1")
	assert.False(t, r.Allowed)
	// 分钟窗口仍有余量, 被拒绝的请求不计入
	assert.Equal(t, int64(98), r.Remaining)
}

func TestDeniedRequestsDoNotConsumeWindow(t *testing.T) {
	l, now := newTestLimiter(config.RateLimit{PerMinute: 10, Burst: 2, BurstWindowS: 10})
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "u1").Allowed)
	require.True(t, l.Allow(ctx, "u1").Allowed)
	// 突发窗口封顶, 连续拒绝不应推进任何计数
	for i := 0; i < 5; i++ {
		require.False(t, l.Allow(ctx, "u1").Allowed)
	}

	*now = now.Add(11 * time.Second)
	r := l.Allow(ctx, "u1")
	require.True(t, r.Allowed)
	// 分钟窗口只记了3次放行
	assert.Equal(t, int64(7), r.Remaining)
}

func TestWindowResets(t *testing.T) {
	l, now := newTestLimiter(config.RateLimit{PerMinute: 1, Burst: 10, BurstWindowS: 10})
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "u1").Allowed)
	require.False(t, l.Allow(ctx, "u1").Allowed)

	*now = now.Add(61 * time.Second)
	assert.True(t, l.Allow(ctx, "u1").Allowed)
}

func TestUsersIsolated(t *testing.T) {
	l, _ := newTestLimiter(config.RateLimit{PerMinute: 1, Burst: 10, BurstWindowS: 10})
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "u1").Allowed)
	require.False(t, l.Allow(ctx, "u1").Allowed)
	assert.True(t, l.Allow(ctx, "u2").Allowed)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) { return "", errors.New("down") }
func (brokenStore) SetEx(context.Context, string, string, time.Duration) error {
	return errors.New("down")
}
func (brokenStore) Del(context.Context, ...string) error { return errors.New("down") }
func (brokenStore) IncrEx(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("down")
}
func (brokenStore) TTL(context.Context, string) (time.Duration, error) {
	return 0, errors.New("down")
}

func TestFailOpen(t *testing.T) {
	l := New(brokenStore{}, config.RateLimit{PerMinute: 5, Burst: 2, BurstWindowS: 10})
	r := l.Allow(context.Background(), "u1")
	assert.True(t, r.Allowed)
	assert.Equal(t, int64(5), r.Remaining)
}
