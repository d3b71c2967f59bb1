package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/attachment"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/quota"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/storage"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

// 单个附件大小上限
const maxAttachmentBytes = 50 << 20

// 各附件类型允许的mime
var allowedMimes = map[string]map[string]bool{
	cst.AttachPDF:   {"application/pdf": true},
	cst.AttachImage: {"image/png": true, "image/jpeg": true, "image/webp": true, "image/gif": true},
	cst.AttachAudio: {"audio/mpeg": true, "audio/wav": true, "audio/ogg": true, "audio/webm": true, "audio/mp4": true},
	cst.AttachLink:  {"text/uri-list": true},
}

type IAttachService interface {
	SignAttachment(ctx context.Context, req *core_api.SignAttachmentReq) (*core_api.SignAttachmentResp, error)
	CompleteAttachment(ctx context.Context, req *core_api.CompleteAttachmentReq) (*core_api.CompleteAttachmentResp, error)
}

type AttachService struct {
	Config           *config.Config
	AttachmentMapper attachment.MongoMapper
	QuotaMapper      quota.MongoMapper
	Storage          storage.COS
}

var AttachServiceSet = wire.NewSet(
	wire.Struct(new(AttachService), "*"),
	wire.Bind(new(IAttachService), new(*AttachService)),
)

// SignAttachment 校验并登记附件, 签发客户端直传URL
func (s *AttachService) SignAttachment(ctx context.Context, req *core_api.SignAttachmentReq) (*core_api.SignAttachmentResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	if !allowedMimes[req.Kind][req.Mime] {
		return nil, errorx.New(errno.AttachMimeErrCode, errorx.KV("mime", req.Mime))
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxAttachmentBytes {
		return nil, errorx.New(errno.AttachTooLargeErrCode)
	}

	// 预占附件配额, 超限则回滚
	mb := (req.SizeBytes + (1 << 20) - 1) >> 20
	q, err := s.QuotaMapper.Consume(ctx, uid, 0, 0, mb)
	if err != nil {
		logs.Errorf("consume attachment quota error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.AttachSignErrCode)
	}
	if q.AttachmentMB > s.Config.Quota.MaxAttachmentMB {
		if err = s.QuotaMapper.Release(ctx, uid, mb); err != nil {
			logs.Errorf("release attachment quota error: %s", errorx.ErrorWithoutStack(err))
		}
		return nil, errorx.New(errno.QuotaExceededCode)
	}

	key := fmt.Sprintf("%s/%s/%d", uid, req.ThreadId, time.Now().UnixMilli())
	a := &attachment.Attachment{
		AttachmentId: primitive.NewObjectID(),
		Kind:         req.Kind,
		Mime:         req.Mime,
		Name:         req.Name,
		SizeBytes:    req.SizeBytes,
		Key:          key,
	}
	if a.UserId, err = primitive.ObjectIDFromHex(uid); err != nil {
		return nil, errorx.WrapByCode(err, errno.OIDErrCode)
	}
	if req.ThreadId != "" {
		if a.ThreadId, err = primitive.ObjectIDFromHex(req.ThreadId); err != nil {
			return nil, errorx.WrapByCode(err, errno.OIDErrCode)
		}
	}
	if err = s.AttachmentMapper.InsertPending(ctx, a); err != nil {
		logs.Errorf("insert attachment error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.AttachSignErrCode)
	}

	presigned, err := s.Storage.GenPresignURL(ctx, key, nil)
	if err != nil {
		logs.Errorf("presign attachment error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.AttachSignErrCode)
	}
	return &core_api.SignAttachmentResp{
		Resp:         util.Success(),
		AttachmentId: a.AttachmentId.Hex(),
		PresignedURL: presigned,
		AccessURL:    s.Storage.GetPermanentAccessURL(key),
	}, nil
}

// CompleteAttachment 客户端直传完成后确认附件可用
func (s *AttachService) CompleteAttachment(ctx context.Context, req *core_api.CompleteAttachmentReq) (*core_api.CompleteAttachmentResp, error) {
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		logs.Errorf("extract user id error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.UnAuthErrCode)
	}

	if err = s.AttachmentMapper.MarkComplete(ctx, uid, req.AttachmentId); err != nil {
		logs.Errorf("complete attachment error: %s", errorx.ErrorWithoutStack(err))
		if errors.Is(err, monc.ErrNotFound) {
			return nil, errorx.WrapByCode(err, errno.ParamErrCode)
		}
		return nil, errorx.WrapByCode(err, errno.AttachSignErrCode)
	}
	return &core_api.CompleteAttachmentResp{Resp: util.Success()}, nil
}
