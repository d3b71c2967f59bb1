package service

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/control"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/orchestrator"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/limiter"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/message"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/quota"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/xh-polaris/brandstudio-core-api/pkg/safego"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

type IChatService interface {
	Chat(c *app.RequestContext, ctx context.Context, req *core_api.ChatReq) (*adaptor.SSEStream, error)
	Abort(ctx context.Context, req *core_api.AbortReq) (*core_api.AbortResp, error)
	Regenerate(c *app.RequestContext, ctx context.Context, req *core_api.RegenerateReq) (*adaptor.SSEStream, error)
}

type ChatService struct {
	Config        *config.Config
	Orchestrator  *orchestrator.Orchestrator
	Limiter       *limiter.Limiter
	QuotaMapper   quota.MongoMapper
	MessageMapper message.MongoMapper
	AbortManager  *control.AbortManager
	ContextStore  *control.ContextStore
}

var ChatServiceSet = wire.NewSet(
	wire.Struct(new(ChatService), "*"),
	wire.Bind(new(IChatService), new(*ChatService)),
)

// Chat 发起一次对话运行, 返回的事件流由adaptor层持续写给客户端
func (s *ChatService) Chat(c *app.RequestContext, ctx context.Context, req *core_api.ChatReq) (*adaptor.SSEStream, error) {
	uid, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err = validateChatReq(req); err != nil {
		return nil, err
	}

	if err = s.checkLimits(ctx, c, uid); err != nil {
		return nil, err
	}

	// 保存本次请求上下文, 供重新生成复用
	if req.ThreadId != "" {
		if err = s.ContextStore.Save(ctx, req.ThreadId, &control.RegenContext{UserId: uid, Request: req}); err != nil {
			logs.CtxWarnf(ctx, "save chat context error: %s", errorx.ErrorWithoutStack(err))
		}
	}

	runId := primitive.NewObjectID().Hex()
	stream := adaptor.NewSSEStream(c)
	safego.Go(ctx, func() {
		s.Orchestrator.Run(ctx, uid, runId, req, stream)
	})
	return stream, nil
}

// Abort 标记一次运行为中断, 对已结束或未知的运行同样幂等成功
func (s *ChatService) Abort(ctx context.Context, req *core_api.AbortReq) (*core_api.AbortResp, error) {
	uid, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if req.ThreadId == "" || req.RunId == "" {
		return nil, errorx.New(errno.ParamErrCode, errorx.KV("reason", "threadId and runId required"))
	}

	c, _ := adaptor.ExtractContext(ctx)
	if err = s.rateLimit(ctx, c, uid); err != nil {
		return nil, err
	}

	if err = s.AbortManager.Signal(ctx, req.ThreadId, req.RunId); err != nil {
		logs.Errorf("signal abort error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.AbortErrCode)
	}
	return &core_api.AbortResp{Resp: util.Success()}, nil
}

// Regenerate 复用保存的请求上下文重新生成最后一轮回复
func (s *ChatService) Regenerate(c *app.RequestContext, ctx context.Context, req *core_api.RegenerateReq) (*adaptor.SSEStream, error) {
	uid, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if req.ThreadId == "" {
		return nil, errorx.New(errno.ParamErrCode, errorx.KV("reason", "threadId required"))
	}

	if err = s.checkLimits(ctx, c, uid); err != nil {
		return nil, err
	}

	rc, err := s.ContextStore.Load(ctx, req.ThreadId)
	if err != nil {
		logs.Errorf("load chat context error: %s", errorx.ErrorWithoutStack(err))
		return nil, err
	}
	if rc.UserId != uid {
		return nil, errorx.New(errno.ForbiddenRoleCode)
	}

	// 旧回复标记为被替换
	s.markRegenerated(ctx, req.ThreadId)

	modified := control.ApplyNudge(rc.Request, req.Nudge)
	runId := primitive.NewObjectID().Hex()
	stream := adaptor.NewSSEStream(c)
	safego.Go(ctx, func() {
		s.Orchestrator.Run(ctx, uid, runId, modified, stream)
	})
	return stream, nil
}

// authorize 校验登录态与内部角色
func (s *ChatService) authorize(ctx context.Context) (string, error) {
	uid, role, err := adaptor.ExtractUserIdAndRole(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return "", errorx.WrapByCode(err, errno.UnAuthErrCode)
	}
	if role != cst.RoleInternal {
		return "", errorx.New(errno.ForbiddenRoleCode)
	}
	return uid, nil
}

// validateChatReq 消息与会话设置都是必填
func validateChatReq(req *core_api.ChatReq) error {
	if len(req.Messages) == 0 {
		return errorx.New(errno.ParamErrCode, errorx.KV("reason", "messages required"))
	}
	if req.Settings == nil {
		return errorx.New(errno.ParamErrCode, errorx.KV("reason", "settings required"))
	}
	return nil
}

// rateLimit 限流判定, 限流余量通过响应头回传
func (s *ChatService) rateLimit(ctx context.Context, c *app.RequestContext, uid string) error {
	r := s.Limiter.Allow(ctx, uid)
	if c != nil {
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.FormatInt(r.Remaining, 10))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(r.Reset, 10))
	}
	if !r.Allowed {
		return errorx.New(errno.RateLimitedCode)
	}
	return nil
}

// checkLimits 限流与配额前置检查
func (s *ChatService) checkLimits(ctx context.Context, c *app.RequestContext, uid string) error {
	if err := s.rateLimit(ctx, c, uid); err != nil {
		return err
	}

	// 配额读取失败时放行, 记账在编排结束时进行
	q, err := s.QuotaMapper.Current(ctx, uid)
	if err != nil {
		logs.CtxWarnf(ctx, "read quota error: %s", errorx.ErrorWithoutStack(err))
		return nil
	}
	if q.Tokens >= s.Config.Quota.MaxTokens || q.Requests >= s.Config.Quota.MaxRequests {
		return errorx.New(errno.QuotaExceededCode)
	}
	return nil
}

func (s *ChatService) markRegenerated(ctx context.Context, threadId string) {
	msgs, err := s.MessageMapper.RetrieveMessages(ctx, threadId, 10)
	if err != nil {
		logs.CtxWarnf(ctx, "retrieve messages error: %s", errorx.ErrorWithoutStack(err))
		return
	}
	for _, m := range msgs {
		if m.Role == message.RoleStoI[cst.Assistant] {
			if err = s.MessageMapper.UpdateStatus(ctx, m.MessageId, message.StatusRegenerated); err != nil {
				logs.CtxWarnf(ctx, "mark regenerated error: %s", errorx.ErrorWithoutStack(err))
			}
			return
		}
	}
}
