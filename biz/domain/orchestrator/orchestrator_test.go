package orchestrator

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/protocol/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tencentyun/cos-go-sdk-v5"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/control"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/guard"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/model"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/tool"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache/memory"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/attachment"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/event"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/message"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/quota"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/thread"
)

func TestMain(m *testing.M) {
	sleep = func(time.Duration) {}
	m.Run()
}

type fakeThreads struct {
	mu      sync.Mutex
	threads map[string]*thread.Thread
	touched []string
}

func newFakeThreads() *fakeThreads {
	return &fakeThreads{threads: map[string]*thread.Thread{}}
}

func (f *fakeThreads) CreateNewThread(_ context.Context, uid, title, persona string) (*thread.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	t := &thread.Thread{ThreadId: primitive.NewObjectID(), UserId: oid, Title: title, Persona: persona}
	f.threads[t.ThreadId.Hex()] = t
	return t, nil
}

func (f *fakeThreads) FindOne(_ context.Context, uid, tid string) (*thread.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[tid]
	if !ok || t.UserId.Hex() != uid {
		return nil, monc.ErrNotFound
	}
	return t, nil
}

func (f *fakeThreads) ListThreads(context.Context, string, *basic.Page) ([]*thread.Thread, bool, error) {
	return nil, false, nil
}

func (f *fakeThreads) RenameThread(context.Context, string, string, string) error { return nil }
func (f *fakeThreads) DeleteThread(context.Context, string, string) error         { return nil }

func (f *fakeThreads) TouchThread(_ context.Context, tid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, tid)
	return nil
}

type fakeMessages struct {
	mu   sync.Mutex
	msgs []*message.Message
}

func (f *fakeMessages) InsertOne(_ context.Context, msg *message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *msg
	f.msgs = append(f.msgs, &cp)
	return nil
}

func (f *fakeMessages) FindOne(_ context.Context, mid primitive.ObjectID) (*message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.msgs {
		if m.MessageId == mid {
			return m, nil
		}
	}
	return nil, monc.ErrNotFound
}

func (f *fakeMessages) RetrieveMessages(_ context.Context, tid string, size int) ([]*message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*message.Message
	for i := len(f.msgs) - 1; i >= 0 && len(out) < size; i-- {
		if f.msgs[i].ThreadId.Hex() == tid {
			out = append(out, f.msgs[i])
		}
	}
	return out, nil
}

func (f *fakeMessages) ListMessage(context.Context, string, *basic.Page) ([]*message.Message, bool, error) {
	return nil, false, nil
}

func (f *fakeMessages) Finalize(_ context.Context, mid primitive.ObjectID, content string, usage *message.Usage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.msgs {
		if m.MessageId == mid {
			m.Content = content
			m.Usage = usage
			m.Status = message.StatusDefault
			return nil
		}
	}
	return monc.ErrNotFound
}

func (f *fakeMessages) UpdateStatus(_ context.Context, mid primitive.ObjectID, status int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.msgs {
		if m.MessageId == mid {
			m.Status = status
			return nil
		}
	}
	return monc.ErrNotFound
}

func (f *fakeMessages) byRole(role int32) []*message.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*message.Message
	for _, m := range f.msgs {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*event.Event
}

func (f *fakeEvents) Append(_ context.Context, e *event.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) ListByRun(context.Context, primitive.ObjectID, string) ([]*event.Event, error) {
	return nil, nil
}

type fakeQuota struct {
	mu       sync.Mutex
	tokens   int64
	requests int64
}

func (f *fakeQuota) Consume(_ context.Context, uid string, tokens, requests, attachmentMB int64) (*quota.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens += tokens
	f.requests += requests
	oid, _ := primitive.ObjectIDFromHex(uid)
	return &quota.Quota{UserId: oid, Tokens: f.tokens, Requests: f.requests}, nil
}

func (f *fakeQuota) Current(_ context.Context, uid string) (*quota.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, _ := primitive.ObjectIDFromHex(uid)
	return &quota.Quota{UserId: oid, Tokens: f.tokens, Requests: f.requests}, nil
}

func (f *fakeQuota) Release(context.Context, string, int64) error { return nil }

type fakeAttachments struct {
	attaches map[string]*attachment.Attachment
}

func (f *fakeAttachments) InsertPending(context.Context, *attachment.Attachment) error { return nil }

func (f *fakeAttachments) FindOne(_ context.Context, uid, aid string) (*attachment.Attachment, error) {
	if a, ok := f.attaches[aid]; ok && a.UserId.Hex() == uid {
		return a, nil
	}
	return nil, monc.ErrNotFound
}

func (f *fakeAttachments) MarkComplete(context.Context, string, string) error     { return nil }
func (f *fakeAttachments) DeleteAttachment(context.Context, string, string) error { return nil }

type fakeCOS struct{}

func (fakeCOS) Upload(context.Context, string, io.Reader, *cos.ObjectPutOptions) (*cos.Response, error) {
	return nil, nil
}
func (fakeCOS) GenPresignURL(context.Context, string, *cos.PresignedURLOptions) (string, error) {
	return "https://cos.test/presigned", nil
}
func (fakeCOS) GetPermanentAccessURL(key string) string { return "https://cos.test/" + key }

type failGenerator struct{ err error }

func (g failGenerator) Generate(context.Context, *core_api.ChatReq, []*tool.Result) (string, int64, error) {
	return "", 0, g.err
}

type harness struct {
	orch     *Orchestrator
	threads  *fakeThreads
	messages *fakeMessages
	events   *fakeEvents
	quota    *fakeQuota
}

func newHarness() *harness {
	c := &config.Config{DryRun: true}
	h := &harness{
		threads:  newFakeThreads(),
		messages: &fakeMessages{},
		events:   &fakeEvents{},
		quota:    &fakeQuota{},
	}
	h.orch = &Orchestrator{
		ThreadMapper:     h.threads,
		MessageMapper:    h.messages,
		EventMapper:      h.events,
		QuotaMapper:      h.quota,
		AttachmentMapper: &fakeAttachments{},
		Guard:            guard.New(config.Guard{}),
		Registry:         tool.NewRegistry(c),
		Generator:        model.NewGenerator(c),
		Abort:            control.NewAbortManager(memory.New()),
		Storage:          fakeCOS{},
	}
	return h
}

// collect 消费事件流直至关闭
func collect(t *testing.T, h *harness, ctx context.Context, uid, runId string, req *core_api.ChatReq) []*sse.Event {
	t.Helper()
	stream := adaptor.NewSSEStream(nil)
	var events []*sse.Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			e, ok := stream.Nex()
			if !ok {
				return
			}
			events = append(events, e)
		}
	}()
	h.orch.Run(ctx, uid, runId, req, stream)
	<-done
	return events
}

func userReq(text string) *core_api.ChatReq {
	return &core_api.ChatReq{
		Messages: []*core_api.InputMessage{{
			Role:  cst.User,
			Parts: []*core_api.MessagePart{{Type: cst.PartText, Text: text}},
		}},
	}
}

// nonTokenTypes 过滤token事件, 保留编排骨架
func nonTokenTypes(events []*sse.Event) []string {
	var types []string
	for _, e := range events {
		if e.Type != cst.EventToken {
			types = append(types, e.Type)
		}
	}
	return types
}

func joinedTokens(events []*sse.Event) string {
	var sb strings.Builder
	for _, e := range events {
		if e.Type != cst.EventToken {
			continue
		}
		var tok adaptor.EventToken
		if err := sonic.Unmarshal(e.Data, &tok); err == nil {
			sb.WriteString(tok.Delta)
		}
	}
	return sb.String()
}

func TestRunHappyPath(t *testing.T) {
	h := newHarness()
	uid := primitive.NewObjectID().Hex()

	events := collect(t, h, context.Background(), uid, "run-1", userReq("calcula cuanto es 2+2*3"))

	assert.Equal(t, []string{
		cst.EventReady, cst.EventState, cst.EventState,
		cst.EventTool, cst.EventTool,
		cst.EventState, cst.EventState,
		cst.EventUsage, cst.EventDone,
	}, nonTokenTypes(events))

	var ready adaptor.EventReady
	require.NoError(t, sonic.Unmarshal(events[0].Data, &ready))
	assert.Equal(t, "run-1", ready.RunId)
	assert.NotEmpty(t, ready.ThreadId)

	// 占位消息被终稿替换, token流与落库内容一致
	full := joinedTokens(events)
	assert.Contains(t, full, "El resultado es: 42")
	assistants := h.messages.byRole(message.RoleStoI[cst.Assistant])
	require.Len(t, assistants, 1)
	assert.Equal(t, full, assistants[0].Content)
	assert.Equal(t, message.StatusDefault, assistants[0].Status)
	require.NotNil(t, assistants[0].Usage)
	assert.True(t, assistants[0].Usage.PromptTokens > 0)

	users := h.messages.byRole(message.RoleStoI[cst.User])
	require.Len(t, users, 1)
	assert.Equal(t, "calcula cuanto es 2+2*3", users[0].Content)

	var done adaptor.EventDone
	require.NoError(t, sonic.Unmarshal(events[len(events)-1].Data, &done))
	assert.Equal(t, assistants[0].MessageId.Hex(), done.MessageId)
	assert.True(t, done.Final)

	assert.Equal(t, int64(1), h.quota.requests)
	assert.True(t, h.quota.tokens > 0)
	assert.Equal(t, []string{ready.ThreadId}, h.threads.touched)
}

func TestRunStageOrder(t *testing.T) {
	h := newHarness()
	events := collect(t, h, context.Background(), primitive.NewObjectID().Hex(), "run-2", userReq("hola"))

	var stages []string
	for _, e := range events {
		if e.Type == cst.EventState {
			var s adaptor.EventState
			require.NoError(t, sonic.Unmarshal(e.Data, &s))
			stages = append(stages, s.Stage)
		}
	}
	assert.Equal(t, []string{cst.StageAnalyze, cst.StagePlan, cst.StageGenerate, cst.StageFinalize}, stages)
}

func TestRunBrandGuardBlocks(t *testing.T) {
	h := newHarness()
	events := collect(t, h, context.Background(), primitive.NewObjectID().Hex(), "run-3", userReq("our obsolete product line"))

	assert.Equal(t, []string{cst.EventReady, cst.EventState, cst.EventError}, nonTokenTypes(events))

	var ee adaptor.EventError
	require.NoError(t, sonic.Unmarshal(events[len(events)-1].Data, &ee))
	assert.Equal(t, cst.CodePolicyViolation, ee.Code)
	assert.Contains(t, ee.Message, "Brand compliance issues: ")

	// 阻断发生在计划之前, 没有模型消息也不计费
	assert.Empty(t, h.messages.byRole(message.RoleStoI[cst.Assistant]))
	assert.Equal(t, int64(0), h.quota.requests)
}

func TestRunBrandGuardDisabled(t *testing.T) {
	h := newHarness()
	off := false
	req := userReq("our obsolete product line")
	req.Settings = &core_api.Settings{BrandGuard: &off}

	events := collect(t, h, context.Background(), primitive.NewObjectID().Hex(), "run-4", req)
	assert.Equal(t, cst.EventDone, events[len(events)-1].Type)
}

func TestRunVisualHandoff(t *testing.T) {
	h := newHarness()
	events := collect(t, h, context.Background(), primitive.NewObjectID().Hex(), "run-5",
		userReq("diseñar un banner moderno para la campaña"))

	full := joinedTokens(events)
	var handoff map[string]any
	require.NoError(t, sonic.UnmarshalString(full, &handoff))
	assert.Equal(t, "image.generate", handoff["task"])
	assert.NotEmpty(t, handoff["subject"])

	assistants := h.messages.byRole(message.RoleStoI[cst.Assistant])
	require.Len(t, assistants, 1)
	assert.Equal(t, full, assistants[0].Content)
}

func TestRunExistingThread(t *testing.T) {
	h := newHarness()
	uid := primitive.NewObjectID().Hex()
	existing, err := h.threads.CreateNewThread(context.Background(), uid, "campaña", cst.PersonaMentor)
	require.NoError(t, err)

	req := userReq("hola")
	req.ThreadId = existing.ThreadId.Hex()
	events := collect(t, h, context.Background(), uid, "run-6", req)

	var ready adaptor.EventReady
	require.NoError(t, sonic.Unmarshal(events[0].Data, &ready))
	assert.Equal(t, existing.ThreadId.Hex(), ready.ThreadId)
}

func TestRunUnknownToolSkipped(t *testing.T) {
	h := newHarness()
	req := userReq("hola")
	req.Tools = []string{"export.md"}

	events := collect(t, h, context.Background(), primitive.NewObjectID().Hex(), "run-7", req)

	toolEvents := 0
	for _, e := range events {
		if e.Type == cst.EventTool {
			toolEvents++
		}
	}
	// 只有执行前事件, 未找到的工具不产生结果事件
	assert.Equal(t, 1, toolEvents)
	assert.Equal(t, cst.EventDone, events[len(events)-1].Type)
}

func TestRunGenerationFailure(t *testing.T) {
	h := newHarness()
	h.orch.Generator = failGenerator{err: io.ErrUnexpectedEOF}

	events := collect(t, h, context.Background(), primitive.NewObjectID().Hex(), "run-8", userReq("hola"))

	var ee adaptor.EventError
	require.NoError(t, sonic.Unmarshal(events[len(events)-1].Data, &ee))
	assert.Equal(t, cst.CodeOrchestration, ee.Code)

	// 占位消息被清理为失败文案
	assistants := h.messages.byRole(message.RoleStoI[cst.Assistant])
	require.Len(t, assistants, 1)
	assert.Equal(t, "Error: Generation failed", assistants[0].Content)
}

func TestRunAbortDuringGenerate(t *testing.T) {
	h := newHarness()
	h.orch.Generator = failGenerator{err: errAborted}

	events := collect(t, h, context.Background(), primitive.NewObjectID().Hex(), "run-9", userReq("hola"))

	var ee adaptor.EventError
	require.NoError(t, sonic.Unmarshal(events[len(events)-1].Data, &ee))
	assert.Equal(t, cst.CodeAborted, ee.Code)

	assistants := h.messages.byRole(message.RoleStoI[cst.Assistant])
	require.Len(t, assistants, 1)
	assert.Equal(t, message.StatusInterrupted, assistants[0].Status)
}

func TestRunAbortedContext(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := collect(t, h, ctx, primitive.NewObjectID().Hex(), "run-10", userReq("calcula 2+2"))

	var ee adaptor.EventError
	require.NoError(t, sonic.Unmarshal(events[len(events)-1].Data, &ee))
	assert.Equal(t, cst.CodeAborted, ee.Code)
}

func TestRunBadUserId(t *testing.T) {
	h := newHarness()
	events := collect(t, h, context.Background(), "not-a-hex", "run-11", userReq("hola"))

	require.Len(t, events, 1)
	assert.Equal(t, cst.EventError, events[0].Type)
}
