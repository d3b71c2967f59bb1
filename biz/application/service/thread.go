package service

import (
	"context"
	"errors"

	"github.com/google/wire"
	"github.com/zeromicro/go-zero/core/stores/monc"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/message"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/thread"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

type IThreadService interface {
	CreateThread(ctx context.Context, req *core_api.CreateThreadReq) (*core_api.CreateThreadResp, error)
	RenameThread(ctx context.Context, req *core_api.RenameThreadReq) (*core_api.RenameThreadResp, error)
	ListThread(ctx context.Context, req *core_api.ListThreadReq) (*core_api.ListThreadResp, error)
	GetThread(ctx context.Context, req *core_api.GetThreadReq) (*core_api.GetThreadResp, error)
	DeleteThread(ctx context.Context, req *core_api.DeleteThreadReq) (*core_api.DeleteThreadResp, error)
}

type ThreadService struct {
	ThreadMapper  thread.MongoMapper
	MessageMapper message.MongoMapper
}

var ThreadServiceSet = wire.NewSet(
	wire.Struct(new(ThreadService), "*"),
	wire.Bind(new(IThreadService), new(*ThreadService)),
)

func (s *ThreadService) CreateThread(ctx context.Context, req *core_api.CreateThreadReq) (*core_api.CreateThreadResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	t, err := s.ThreadMapper.CreateNewThread(ctx, uid, req.Title, req.Persona)
	if err != nil {
		logs.Errorf("create thread error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ThreadCreateErrCode)
	}
	return &core_api.CreateThreadResp{Resp: util.Success(), ThreadId: t.ThreadId.Hex()}, nil
}

func (s *ThreadService) RenameThread(ctx context.Context, req *core_api.RenameThreadReq) (*core_api.RenameThreadResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}
	if req.Title == "" {
		return nil, errorx.New(errno.ParamErrCode, errorx.KV("reason", "title required"))
	}

	if err = s.ThreadMapper.RenameThread(ctx, uid, req.ThreadId, req.Title); err != nil {
		logs.Errorf("rename thread error: %s", errorx.ErrorWithoutStack(err))
		if errors.Is(err, monc.ErrNotFound) {
			return nil, errorx.WrapByCode(err, errno.ThreadNotFoundErrCode)
		}
		return nil, errorx.WrapByCode(err, errno.ThreadRenameErrCode)
	}
	return &core_api.RenameThreadResp{Resp: util.Success()}, nil
}

func (s *ThreadService) ListThread(ctx context.Context, req *core_api.ListThreadReq) (*core_api.ListThreadResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	ts, hasMore, err := s.ThreadMapper.ListThreads(ctx, uid, req.Page)
	if err != nil {
		logs.Errorf("list thread error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ThreadListErrCode)
	}

	threads := make([]*core_api.Thread, 0, len(ts))
	for _, t := range ts {
		threads = append(threads, threadView(t))
	}
	return &core_api.ListThreadResp{Resp: util.Success(), Threads: threads, HasMore: hasMore}, nil
}

func (s *ThreadService) GetThread(ctx context.Context, req *core_api.GetThreadReq) (*core_api.GetThreadResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	t, err := s.ThreadMapper.FindOne(ctx, uid, req.ThreadId)
	if err != nil {
		logs.Errorf("get thread error: %s", errorx.ErrorWithoutStack(err))
		if errors.Is(err, monc.ErrNotFound) {
			return nil, errorx.WrapByCode(err, errno.ThreadNotFoundErrCode)
		}
		return nil, errorx.WrapByCode(err, errno.ThreadGetErrCode)
	}

	msgs, hasMore, err := s.MessageMapper.ListMessage(ctx, req.ThreadId, req.Page)
	if err != nil {
		logs.Errorf("list message error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ThreadGetErrCode)
	}

	views := make([]*core_api.Message, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, messageView(m))
	}
	return &core_api.GetThreadResp{Resp: util.Success(), Thread: threadView(t), Messages: views, HasMore: hasMore}, nil
}

func (s *ThreadService) DeleteThread(ctx context.Context, req *core_api.DeleteThreadReq) (*core_api.DeleteThreadResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	if err = s.ThreadMapper.DeleteThread(ctx, uid, req.ThreadId); err != nil {
		logs.Errorf("delete thread error: %s", errorx.ErrorWithoutStack(err))
		if errors.Is(err, monc.ErrNotFound) {
			return nil, errorx.WrapByCode(err, errno.ThreadNotFoundErrCode)
		}
		return nil, errorx.WrapByCode(err, errno.ThreadDeleteErrCode)
	}
	return &core_api.DeleteThreadResp{Resp: util.Success()}, nil
}

func threadView(t *thread.Thread) *core_api.Thread {
	return &core_api.Thread{
		ThreadId:   t.ThreadId.Hex(),
		Title:      t.Title,
		Persona:    t.Persona,
		CreateTime: t.CreateTime.UnixMilli(),
		UpdateTime: t.UpdateTime.UnixMilli(),
	}
}

func messageView(m *message.Message) *core_api.Message {
	v := &core_api.Message{
		MessageId:  m.MessageId.Hex(),
		Role:       message.RoleItoS[m.Role],
		Content:    m.Content,
		Persona:    m.Persona,
		CreateTime: m.CreateTime.UnixMilli(),
	}
	if m.Usage != nil {
		v.Usage = &core_api.Usage{PromptTokens: m.Usage.PromptTokens, CompletionTokens: m.Usage.CompletionTokens}
	}
	return v
}
