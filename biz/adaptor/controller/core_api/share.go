package core_api

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/provider"
)

// CreateShareLink 为线程签发分享链接
// @router /share/create [POST]
func CreateShareLink(ctx context.Context, c *app.RequestContext) {
	var req core_api.CreateShareLinkReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ShareService.CreateShareLink(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// GetSharedThread 通过分享凭据读取线程
// @router /share/get [POST]
func GetSharedThread(ctx context.Context, c *app.RequestContext) {
	var req core_api.GetSharedThreadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ShareService.GetSharedThread(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// RevokeShareLink 撤销分享链接
// @router /share/revoke [POST]
func RevokeShareLink(ctx context.Context, c *app.RequestContext) {
	var req core_api.RevokeShareLinkReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ShareService.RevokeShareLink(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}
