package core_api

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/provider"
)

// SignAttachment 登记附件并签发直传URL
// @router /attach/sign [POST]
func SignAttachment(ctx context.Context, c *app.RequestContext) {
	var req core_api.SignAttachmentReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().AttachService.SignAttachment(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// CompleteAttachment 确认附件上传完成
// @router /attach/complete [POST]
func CompleteAttachment(ctx context.Context, c *app.RequestContext) {
	var req core_api.CompleteAttachmentReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().AttachService.CompleteAttachment(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}
