package control

import (
	"context"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/xh-polaris/brandstudio-core-api/pkg/safego"
)

const (
	abortTTL     = 5 * time.Minute
	pollInterval = 150 * time.Millisecond
)

// AbortManager 通过共享存储传递中断信号, 多实例部署下同样生效
type AbortManager struct {
	store cache.Store
}

func NewAbortManager(store cache.Store) *AbortManager {
	return &AbortManager{store: store}
}

func abortKey(threadId, runId string) string {
	return cst.AbortPrefix + threadId + ":" + runId
}

// Signal 标记一次运行为中断, 对未知的 runId 同样幂等成功
func (m *AbortManager) Signal(ctx context.Context, threadId, runId string) error {
	return m.store.SetEx(ctx, abortKey(threadId, runId), "1", abortTTL)
}

// IsAborted 查询中断标记, 存储异常时视为未中断
func (m *AbortManager) IsAborted(ctx context.Context, threadId, runId string) bool {
	_, err := m.store.Get(ctx, abortKey(threadId, runId))
	if err != nil {
		if err != cache.Nil {
			logs.CtxWarnf(ctx, "control: abort check failed, err=%v", err)
		}
		return false
	}
	return true
}

// Watch 返回派生 context, 中断标记出现时取消
func (m *AbortManager) Watch(ctx context.Context, threadId, runId string) (context.Context, context.CancelFunc) {
	watchCtx, cancel := context.WithCancel(ctx)
	safego.Go(ctx, func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-watchCtx.Done():
				return
			case <-ticker.C:
				if m.IsAborted(watchCtx, threadId, runId) {
					cancel()
					return
				}
			}
		}
	})
	return watchCtx, cancel
}
