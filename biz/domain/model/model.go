package model

import (
	"context"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/tool"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
)

// Generator 生成一轮完整的助手回复全文
// 流式切分与节奏控制由编排层负责
type Generator interface {
	Generate(ctx context.Context, req *core_api.ChatReq, results []*tool.Result) (text string, completionTokens int64, err error)
}

type generator struct {
	live *openaiGenerator
	mock *mockGenerator
}

func NewGenerator(c *config.Config) Generator {
	g := &generator{mock: newMockGenerator(c.DryRun)}
	if c.Model.APIKey != "" && !c.DryRun {
		g.live = newOpenaiGenerator(c)
	}
	return g
}

// Generate 优先走真实模型, 失败时降级到确定性回复
func (g *generator) Generate(ctx context.Context, req *core_api.ChatReq, results []*tool.Result) (string, int64, error) {
	if g.live != nil {
		text, tokens, err := g.live.Generate(ctx, req, results)
		if err == nil {
			return text, tokens, nil
		}
		logs.CtxErrorf(ctx, "model: live generation failed, fallback to mock, err=%v", err)
	}
	return g.mock.Generate(ctx, req, results)
}
