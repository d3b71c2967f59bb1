package tool

// 工具适配器层, 每个工具一条降级链, 单工具失败不影响本次运行

import (
	"context"
	"errors"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
)

// errNotConfigured 后端缺少凭据, 不可重试, 直接尝试下一个后端
var errNotConfigured = errors.New("provider not configured")

// Adapter 一个可执行的工具
type Adapter interface {
	Name() string
	Execute(ctx context.Context, args map[string]any) (*Result, error)
}

// Result 工具执行结果
// Err非空表示本次执行失败, Data为降级或成功后的结构化输出
type Result struct {
	Tool      string         `json:"tool"`
	Source    string         `json:"source"`
	LatencyMs int64          `json:"latencyMs"`
	Data      map[string]any `json:"data,omitempty"`
	Err       string         `json:"error,omitempty"`
}

// retryPolicy 单后端的重试策略, 退避按尝试次数指数增长
type retryPolicy struct {
	timeout time.Duration
	retries int
	backoff time.Duration
}

var defaultPolicy = retryPolicy{timeout: 12 * time.Second, retries: 2, backoff: 500 * time.Millisecond}

// withRetry 按策略执行fn, 每次尝试有独立超时
func withRetry(ctx context.Context, p retryPolicy, fn func(ctx context.Context) (map[string]any, error)) (data map[string]any, err error) {
	for attempt := 0; attempt <= p.retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		data, err = fn(attemptCtx)
		cancel()
		if err == nil {
			return data, nil
		}
		if errors.Is(err, errNotConfigured) {
			return nil, err
		}
		logs.Warnf("[tool] attempt %d failed: %s", attempt+1, errorx.ErrorWithoutStack(err))
		if attempt < p.retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.backoff * (1 << attempt)):
			}
		}
	}
	return nil, err
}

// provider 降级链上的一个后端
type provider struct {
	name string
	fn   func(ctx context.Context) (map[string]any, error)
}

// runChain 依次尝试各后端, 全部失败时返回最后一个错误
func runChain(ctx context.Context, p retryPolicy, providers []provider) (data map[string]any, source string, err error) {
	for _, pr := range providers {
		if data, err = withRetry(ctx, p, pr.fn); err == nil {
			return data, pr.name, nil
		}
		logs.Warnf("[tool] provider %s failed: %s", pr.name, errorx.ErrorWithoutStack(err))
	}
	return nil, "", err
}
