package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/wire"
	"github.com/zeromicro/go-zero/core/stores/monc"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/message"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/sharelink"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/thread"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

type IShareService interface {
	CreateShareLink(ctx context.Context, req *core_api.CreateShareLinkReq) (*core_api.CreateShareLinkResp, error)
	GetSharedThread(ctx context.Context, req *core_api.GetSharedThreadReq) (*core_api.GetSharedThreadResp, error)
	RevokeShareLink(ctx context.Context, req *core_api.RevokeShareLinkReq) (*core_api.RevokeShareLinkResp, error)
}

type ShareService struct {
	ShareLinkMapper sharelink.MongoMapper
	ThreadMapper    thread.MongoMapper
	MessageMapper   message.MongoMapper
}

var ShareServiceSet = wire.NewSet(
	wire.Struct(new(ShareService), "*"),
	wire.Bind(new(IShareService), new(*ShareService)),
)

// CreateShareLink 为本人名下的线程签发分享链接, 默认只读且仅限内部
func (s *ShareService) CreateShareLink(ctx context.Context, req *core_api.CreateShareLinkReq) (*core_api.CreateShareLinkResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	// 仅线程归属人可分享
	if _, err = s.ThreadMapper.FindOne(ctx, uid, req.ThreadId); err != nil {
		logs.Errorf("find thread error: %s", errorx.ErrorWithoutStack(err))
		if errors.Is(err, monc.ErrNotFound) {
			return nil, errorx.WrapByCode(err, errno.ThreadNotFoundErrCode)
		}
		return nil, errorx.WrapByCode(err, errno.ShareCreateErrCode)
	}

	mode := req.Mode
	if mode == "" {
		mode = cst.ShareModeRead
	}
	scope := req.Scope
	if scope == "" {
		scope = cst.ScopeInternal
	}
	var expire time.Duration
	if req.ExpireHours > 0 {
		expire = time.Duration(req.ExpireHours) * time.Hour
	}

	link, err := s.ShareLinkMapper.CreateShareLink(ctx, uid, req.ThreadId, mode, scope, expire)
	if err != nil {
		logs.Errorf("create share link error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ShareCreateErrCode)
	}
	return &core_api.CreateShareLinkResp{Resp: util.Success(), Token: link.Token}, nil
}

// GetSharedThread 通过分享凭据读取线程, 访问范围由scope决定
func (s *ShareService) GetSharedThread(ctx context.Context, req *core_api.GetSharedThreadReq) (*core_api.GetSharedThreadResp, error) {
	link, err := s.ShareLinkMapper.FindByToken(ctx, req.Token)
	if err != nil {
		logs.Errorf("find share link error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ShareNotFoundErrCode)
	}

	uid, authErr := adaptor.ExtractUserId(ctx)
	switch link.Scope {
	case cst.ScopePublic:
	case cst.ScopeInternal:
		if authErr != nil {
			return nil, errorx.WrapByCode(authErr, errno.UnAuthErrCode)
		}
	default: // private
		if authErr != nil || uid != link.UserId.Hex() {
			return nil, errorx.New(errno.ForbiddenRoleCode)
		}
	}

	t, err := s.ThreadMapper.FindOne(ctx, link.UserId.Hex(), link.ThreadId.Hex())
	if err != nil {
		logs.Errorf("find shared thread error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ShareNotFoundErrCode)
	}

	msgs, hasMore, err := s.MessageMapper.ListMessage(ctx, link.ThreadId.Hex(), req.Page)
	if err != nil {
		logs.Errorf("list shared message error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ThreadGetErrCode)
	}

	views := make([]*core_api.Message, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, messageView(m))
	}
	return &core_api.GetSharedThreadResp{Resp: util.Success(), Thread: threadView(t), Messages: views, HasMore: hasMore}, nil
}

// RevokeShareLink 撤销本人签发的分享链接
func (s *ShareService) RevokeShareLink(ctx context.Context, req *core_api.RevokeShareLinkReq) (*core_api.RevokeShareLinkResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	if err = s.ShareLinkMapper.RevokeShareLink(ctx, uid, req.Token); err != nil {
		logs.Errorf("revoke share link error: %s", errorx.ErrorWithoutStack(err))
		if errors.Is(err, monc.ErrNotFound) {
			return nil, errorx.WrapByCode(err, errno.ShareNotFoundErrCode)
		}
		return nil, errorx.WrapByCode(err, errno.ShareRevokeErrCode)
	}
	return &core_api.RevokeShareLinkResp{Resp: util.Success()}, nil
}
