package adaptor

// SSE流处理

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/sse"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel/trace"
)

// SSEStream SSE事件流
// 生产方向C写入事件, 响应协程统一编号后写给客户端
// Done在客户端断开时关闭, 生产方应监听并尽快终止
type SSEStream struct {
	C    chan *sse.Event
	W    *sse.Writer
	id   int
	Done chan struct{}
}

// NewSSEStream 创建事件流
func NewSSEStream(c *app.RequestContext) *SSEStream {
	s := &SSEStream{C: make(chan *sse.Event, 100), id: 0, Done: make(chan struct{})}
	if c != nil {
		s.W = sse.NewWriter(c)
	}
	return s
}

func (s *SSEStream) Close() {
	close(s.C)
}

// Nex 获取下一个事件并返回是否关闭
func (s *SSEStream) Nex() (*sse.Event, bool) {
	event, ok := <-s.C
	if !ok {
		return nil, false
	}
	event.ID = strconv.Itoa(s.id)
	s.id++
	return event, true
}

// SSE 实现sse流响应, 持续消费事件流直至关闭
func SSE(ctx context.Context, c *app.RequestContext, req any, stream *SSEStream, err error) {
	b3.New().Inject(ctx, &headerProvider{headers: &c.Response.Header})
	logs.CtxInfof(ctx, "[%s] req=%s, resp=sse stream, err=%s, trace=%s", c.Path(), util.JSONF(req), errorx.ErrorWithoutStack(err), trace.SpanContextFromContext(ctx).TraceID().String())

	if err != nil { // 有错误
		PostError(ctx, c, err)
		return
	}
	makeSSE(c, stream)
}

// makeSSE 将事件流写给客户端, 写失败视为客户端断开
func makeSSE(c *app.RequestContext, s *SSEStream) {
	defer func() { _ = s.W.Close() }()
	for {
		e, ok := s.Nex()
		if !ok {
			return
		}
		if err := s.W.Write(e); err != nil {
			logs.CondErrorf(!errors.Is(err, io.EOF), "[adaptor] write sse err: %s", errorx.ErrorWithoutStack(err))
			close(s.Done)
			for range s.C { // 排空, 避免生产方阻塞
			}
			return
		}
	}
}

// EventReady 运行开始事件
type EventReady struct {
	ThreadId string `json:"threadId"`
	RunId    string `json:"runId"`
}

// EventState 阶段切换事件
type EventState struct {
	Stage string `json:"stage"`
}

// EventTool 工具执行事件
type EventTool struct {
	Name      string `json:"name"`
	Args      any    `json:"args,omitempty"`
	Mode      string `json:"mode"`
	Source    string `json:"source,omitempty"`
	LatencyMs int64  `json:"latencyMs,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EventToken 增量文本事件
type EventToken struct {
	Delta string `json:"delta"`
}

// EventUsage 用量事件
type EventUsage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
}

// EventError 终止错误事件
type EventError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventDone 结束事件
type EventDone struct {
	MessageId string `json:"messageId"`
	Final     bool   `json:"final"`
}
