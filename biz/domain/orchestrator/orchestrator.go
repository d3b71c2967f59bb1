package orchestrator

// 对话编排, 按 ready-analyze-plan-tool-generate-finalize 推进一次运行
// 所有对客户端可见的进度都通过SSE事件流下发

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/protocol/sse"
	"github.com/google/wire"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/control"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/guard"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/model"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/plan"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/tool"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/attachment"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/event"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/message"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/quota"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/thread"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/storage"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/xh-polaris/brandstudio-core-api/pkg/safego"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

// 流式输出节奏, 测试中可替换sleep去掉等待
var (
	charDelay = 10 * time.Millisecond
	wordDelay = 30 * time.Millisecond
	sleep     = time.Sleep
)

var errAborted = errors.New("operation aborted")

type Orchestrator struct {
	ThreadMapper     thread.MongoMapper
	MessageMapper    message.MongoMapper
	EventMapper      event.MongoMapper
	QuotaMapper      quota.MongoMapper
	AttachmentMapper attachment.MongoMapper
	Guard            *guard.Guard
	Registry         *tool.Registry
	Generator        model.Generator
	Abort            *control.AbortManager
	Storage          storage.COS
}

var OrchestratorSet = wire.NewSet(wire.Struct(new(Orchestrator), "*"))

// runState 单次运行的上下文
type runState struct {
	uid         primitive.ObjectID
	runId       string
	req         *core_api.ChatReq
	stream      *adaptor.SSEStream
	start       time.Time
	thread      *thread.Thread
	placeholder primitive.ObjectID
	streaming   bool // 占位消息已落库
}

// Run 执行一次完整编排并在结束时关闭事件流
// 线程不存在时创建, 实际线程id通过ready事件回传
func (o *Orchestrator) Run(ctx context.Context, uid, runId string, req *core_api.ChatReq, stream *adaptor.SSEStream) {
	defer stream.Close()

	st := &runState{runId: runId, req: req, stream: stream, start: time.Now()}

	var err error
	if st.uid, err = primitive.ObjectIDFromHex(uid); err != nil {
		o.fail(ctx, st, err)
		return
	}
	if st.thread, err = o.resolveThread(ctx, uid, req); err != nil {
		o.fail(ctx, st, err)
		return
	}

	ctx, cancel := o.Abort.Watch(ctx, st.thread.ThreadId.Hex(), runId)
	defer cancel()

	if err = o.run(ctx, st); err != nil {
		o.fail(ctx, st, err)
	}
}

func (o *Orchestrator) run(ctx context.Context, st *runState) error {
	tid := st.thread.ThreadId.Hex()

	// ready
	o.emit(st, cst.EventReady, &adaptor.EventReady{ThreadId: tid, RunId: st.runId})
	o.logEvent(ctx, st, cst.StageReady, nil)

	// analyze
	o.emit(st, cst.EventState, &adaptor.EventState{Stage: cst.StageAnalyze})
	o.logEvent(ctx, st, "analyze_start", nil)

	text := lastUserText(st.req)
	if err := o.persistUserMessage(ctx, st, text); err != nil {
		return err
	}

	if st.req.GetSettings().GetBrandGuard() {
		report := o.Guard.Precheck(text)
		if !report.Pass {
			o.logEvent(ctx, st, "brand_guard_violation", report)
			msgs := make([]string, 0, len(report.Violations))
			for _, v := range report.Violations {
				msgs = append(msgs, v.Message)
			}
			o.emit(st, cst.EventError, &adaptor.EventError{
				Code:    cst.CodePolicyViolation,
				Message: "Brand compliance issues: " + strings.Join(msgs, ", "),
			})
			return nil
		}
		o.logEvent(ctx, st, "brand_guard_passed", map[string]any{"score": report.Score})
	}

	// plan
	o.emit(st, cst.EventState, &adaptor.EventState{Stage: cst.StagePlan})
	o.logEvent(ctx, st, "plan_start", nil)

	p := plan.Build(text, st.req.Tools, o.resolveAttaches(ctx, st))
	planned := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		planned = append(planned, s.Tool)
	}
	o.logEvent(ctx, st, "plan_complete", map[string]any{"toolsPlanned": planned})

	// tool
	results, err := o.runTools(ctx, st, p)
	if err != nil {
		return err
	}

	// generate
	o.emit(st, cst.EventState, &adaptor.EventState{Stage: cst.StageGenerate})
	o.logEvent(ctx, st, "generate_start", nil)

	if err = o.insertPlaceholder(ctx, st, results); err != nil {
		return err
	}
	fullText, completionTokens, err := o.generate(ctx, st, p, text, results)
	if err != nil {
		return err
	}
	o.logEvent(ctx, st, "generate_complete", map[string]any{
		"responseTokens": completionTokens, "requiresVisual": p.Visual, "toolCount": len(results),
	})

	// finalize
	o.emit(st, cst.EventState, &adaptor.EventState{Stage: cst.StageFinalize})
	o.logEvent(ctx, st, "finalize_start", nil)

	promptTokens := promptTokensOf(st.req)
	usage := &message.Usage{PromptTokens: promptTokens, CompletionTokens: completionTokens}
	if err = o.MessageMapper.Finalize(ctx, st.placeholder, fullText, usage); err != nil {
		return err
	}
	st.streaming = false

	// 配额记账失败不阻断本次回复
	if _, err = o.QuotaMapper.Consume(ctx, st.uid.Hex(), promptTokens+completionTokens, 1, 0); err != nil {
		logs.CtxWarnf(ctx, "[orchestrator] consume quota err: %s", errorx.ErrorWithoutStack(err))
	}
	if err = o.ThreadMapper.TouchThread(ctx, tid); err != nil {
		logs.CtxWarnf(ctx, "[orchestrator] touch thread err: %s", errorx.ErrorWithoutStack(err))
	}

	o.emit(st, cst.EventUsage, &adaptor.EventUsage{PromptTokens: promptTokens, CompletionTokens: completionTokens})
	o.logEvent(ctx, st, "usage_recorded", usage)

	o.emit(st, cst.EventDone, &adaptor.EventDone{MessageId: st.placeholder.Hex(), Final: true})
	o.logEvent(ctx, st, "orchestration_complete", map[string]any{
		"totalLatency": time.Since(st.start).Milliseconds(), "success": true,
	})
	return nil
}

// resolveThread 获取归属本人的线程, 不存在则新建
func (o *Orchestrator) resolveThread(ctx context.Context, uid string, req *core_api.ChatReq) (*thread.Thread, error) {
	if req.ThreadId != "" {
		t, err := o.ThreadMapper.FindOne(ctx, uid, req.ThreadId)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, monc.ErrNotFound) {
			return nil, err
		}
	}
	return o.ThreadMapper.CreateNewThread(ctx, uid, req.Objective, req.GetSettings().GetPersona())
}

func (o *Orchestrator) persistUserMessage(ctx context.Context, st *runState, text string) error {
	last := lastUserMessage(st.req)
	if last == nil {
		return nil
	}
	parts, _ := sonic.MarshalString(last.Parts)
	now := time.Now()
	return o.MessageMapper.InsertOne(ctx, &message.Message{
		MessageId:  primitive.NewObjectID(),
		ThreadId:   st.thread.ThreadId,
		UserId:     st.uid,
		Role:       message.RoleStoI[cst.User],
		Content:    text,
		Parts:      parts,
		CreateTime: now,
		UpdateTime: now,
	})
}

// resolveAttaches 将附件id解析为工具可访问的地址, 解析失败的附件跳过
func (o *Orchestrator) resolveAttaches(ctx context.Context, st *runState) []*plan.Attach {
	attaches := make([]*plan.Attach, 0, len(st.req.Attachments))
	for _, aid := range st.req.Attachments {
		a, err := o.AttachmentMapper.FindOne(ctx, st.uid.Hex(), aid)
		if err != nil {
			logs.CtxWarnf(ctx, "[orchestrator] resolve attachment %s err: %s", aid, errorx.ErrorWithoutStack(err))
			continue
		}
		if a.UploadStatus != cst.UploadComplete {
			continue
		}
		attaches = append(attaches, &plan.Attach{Kind: a.Kind, URL: o.Storage.GetPermanentAccessURL(a.Key)})
	}
	return attaches
}

// runTools 逐个执行计划中的工具, 单个工具失败不中断整轮
func (o *Orchestrator) runTools(ctx context.Context, st *runState, p *plan.Plan) ([]*tool.Result, error) {
	mode := o.Registry.Mode()
	results := make([]*tool.Result, 0, len(p.Steps))
	for _, step := range p.Steps {
		if ctx.Err() != nil {
			return nil, errAborted
		}
		o.emit(st, cst.EventTool, &adaptor.EventTool{Name: step.Tool, Args: step.Args, Mode: mode})

		adapter := o.Registry.Get(step.Tool)
		if adapter == nil {
			o.logEvent(ctx, st, "tool_not_found", map[string]any{"tool": step.Tool})
			continue
		}

		toolStart := time.Now()
		res, err := adapter.Execute(ctx, step.Args)
		latency := time.Since(toolStart).Milliseconds()
		if err != nil {
			logs.CtxErrorf(ctx, "[orchestrator] tool %s err: %s", step.Tool, errorx.ErrorWithoutStack(err))
			res = &tool.Result{Tool: step.Tool, LatencyMs: latency, Err: err.Error()}
			o.logEvent(ctx, st, "tool_error", map[string]any{"tool": step.Tool, "error": err.Error(), "mode": mode})
		} else {
			o.logEvent(ctx, st, "tool_success", map[string]any{"tool": step.Tool, "latencyMs": latency, "mode": mode})
		}
		results = append(results, res)
		o.emit(st, cst.EventTool, &adaptor.EventTool{
			Name: step.Tool, Mode: mode, Source: res.Source, LatencyMs: latency, Error: res.Err,
		})
	}
	return results, nil
}

func (o *Orchestrator) insertPlaceholder(ctx context.Context, st *runState, results []*tool.Result) error {
	now := time.Now()
	msg := &message.Message{
		MessageId:  primitive.NewObjectID(),
		ThreadId:   st.thread.ThreadId,
		UserId:     st.uid,
		RunId:      st.runId,
		Role:       message.RoleStoI[cst.Assistant],
		Persona:    st.req.GetSettings().GetPersona(),
		CreateTime: now,
		UpdateTime: now,
		Status:     message.StatusStreaming,
	}
	if len(results) > 0 {
		msg.Parts, _ = sonic.MarshalString(results)
	}
	if err := o.MessageMapper.InsertOne(ctx, msg); err != nil {
		return err
	}
	st.placeholder = msg.MessageId
	st.streaming = true
	return nil
}

// generate 产出全文并按节奏流式下发token事件
func (o *Orchestrator) generate(ctx context.Context, st *runState, p *plan.Plan, text string, results []*tool.Result) (string, int64, error) {
	if p.Visual {
		raw, err := sonic.MarshalIndent(plan.BuildHandoff(text), "", "  ")
		if err != nil {
			return "", 0, err
		}
		full := string(raw)
		for _, r := range full {
			if ctx.Err() != nil {
				return "", 0, errAborted
			}
			o.emit(st, cst.EventToken, &adaptor.EventToken{Delta: string(r)})
			sleep(charDelay)
		}
		return full, util.EstimateTokens(full), nil
	}

	full, tokens, err := o.Generator.Generate(ctx, st.req, results)
	if err != nil {
		return "", 0, errorx.WrapByCode(err, errno.GenerationFailedCode)
	}
	for i, word := range strings.Split(full, " ") {
		if ctx.Err() != nil {
			return "", 0, errAborted
		}
		delta := word
		if i > 0 {
			delta = " " + word
		}
		o.emit(st, cst.EventToken, &adaptor.EventToken{Delta: delta})
		sleep(wordDelay)
	}
	return full, tokens, nil
}

// fail 统一错误出口, 清理占位消息并下发error事件
func (o *Orchestrator) fail(ctx context.Context, st *runState, err error) {
	logs.CtxErrorf(ctx, "[orchestrator] run %s err: %s", st.runId, errorx.ErrorWithoutStack(err))
	o.logEvent(ctx, st, "orchestration_error", map[string]any{"error": err.Error()})

	aborted := errors.Is(err, errAborted) || errors.Is(err, context.Canceled)
	if st.streaming {
		cleanupCtx := context.WithoutCancel(ctx)
		if aborted {
			if e := o.MessageMapper.UpdateStatus(cleanupCtx, st.placeholder, message.StatusInterrupted); e != nil {
				logs.CtxWarnf(ctx, "[orchestrator] cleanup message err: %s", errorx.ErrorWithoutStack(e))
			}
		} else if e := o.MessageMapper.Finalize(cleanupCtx, st.placeholder, "Error: Generation failed", nil); e != nil {
			logs.CtxWarnf(ctx, "[orchestrator] cleanup message err: %s", errorx.ErrorWithoutStack(e))
		}
	}

	code := cst.CodeOrchestration
	if aborted {
		code = cst.CodeAborted
	}
	o.emit(st, cst.EventError, &adaptor.EventError{Code: code, Message: err.Error()})
}

// emit 下发一个sse事件, 客户端断开后成为空操作
func (o *Orchestrator) emit(st *runState, typ string, payload any) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		logs.Errorf("[orchestrator] marshal %s event err: %s", typ, errorx.ErrorWithoutStack(err))
		return
	}
	select {
	case <-st.stream.Done:
	case st.stream.C <- &sse.Event{Type: typ, Data: data}:
	}
}

// logEvent 异步落审计事件, 载荷先脱敏, 失败只告警
func (o *Orchestrator) logEvent(ctx context.Context, st *runState, typ string, payload any) {
	if st.thread == nil {
		return
	}
	e := &event.Event{
		ThreadId: st.thread.ThreadId,
		RunId:    st.runId,
		UserId:   st.uid,
		Type:     typ,
	}
	if payload != nil {
		e.Payload = guard.RedactPII(util.JSONF(payload))
	}
	logCtx := context.WithoutCancel(ctx)
	safego.Go(logCtx, func() {
		if err := o.EventMapper.Append(logCtx, e); err != nil {
			logs.Warnf("[orchestrator] append event err: %s", errorx.ErrorWithoutStack(err))
		}
	})
}

func lastUserMessage(req *core_api.ChatReq) *core_api.InputMessage {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == cst.User {
			return req.Messages[i]
		}
	}
	return nil
}

func lastUserText(req *core_api.ChatReq) string {
	if m := lastUserMessage(req); m != nil {
		return m.PlainText()
	}
	return ""
}

func promptTokensOf(req *core_api.ChatReq) int64 {
	texts := make([]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		texts = append(texts, m.PlainText())
	}
	return util.EstimateTokens(strings.Join(texts, " "))
}
