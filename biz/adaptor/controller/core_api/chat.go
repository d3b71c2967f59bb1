package core_api

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor"
	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/provider"
)

// Chat 发起一次对话编排, 以sse流返回进度与token
// @router /chat/stream [POST]
func Chat(ctx context.Context, c *app.RequestContext) {
	var req core_api.ChatReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	stream, err := provider.Get().ChatService.Chat(c, ctx, &req)
	adaptor.SSE(ctx, c, &req, stream, err)
}

// Abort 中断一次进行中的运行
// @router /chat/abort [POST]
func Abort(ctx context.Context, c *app.RequestContext) {
	var req core_api.AbortReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	resp, err := provider.Get().ChatService.Abort(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// Regenerate 重新生成最后一轮回复, 以sse流返回
// @router /chat/regenerate [POST]
func Regenerate(ctx context.Context, c *app.RequestContext) {
	var req core_api.RegenerateReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, err)
		return
	}
	ctx = adaptor.InjectContext(ctx, c)
	stream, err := provider.Get().ChatService.Regenerate(c, ctx, &req)
	adaptor.SSE(ctx, c, &req, stream, err)
}
