package core_api

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/provider"
)

// CreateThread 创建线程
// @router /thread/create [POST]
func CreateThread(ctx context.Context, c *app.RequestContext) {
	var req core_api.CreateThreadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ThreadService.CreateThread(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// RenameThread 重命名线程
// @router /thread/rename [POST]
func RenameThread(ctx context.Context, c *app.RequestContext) {
	var req core_api.RenameThreadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ThreadService.RenameThread(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListThread 分页获取本人线程列表
// @router /thread/list [POST]
func ListThread(ctx context.Context, c *app.RequestContext) {
	var req core_api.ListThreadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ThreadService.ListThread(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// GetThread 获取线程详情与消息
// @router /thread/get [POST]
func GetThread(ctx context.Context, c *app.RequestContext) {
	var req core_api.GetThreadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ThreadService.GetThread(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// DeleteThread 删除线程
// @router /thread/delete [POST]
func DeleteThread(ctx context.Context, c *app.RequestContext) {
	var req core_api.DeleteThreadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ThreadService.DeleteThread(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}
