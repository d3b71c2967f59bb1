package model

import (
	"context"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/tool"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
)

const maxCompletionTokens = 2000

type openaiGenerator struct {
	conf config.Model
}

func newOpenaiGenerator(c *config.Config) *openaiGenerator {
	return &openaiGenerator{conf: c.Model}
}

func (g *openaiGenerator) Generate(ctx context.Context, req *core_api.ChatReq, results []*tool.Result) (string, int64, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  g.conf.APIKey,
		BaseURL: g.conf.BaseURL,
		Model:   g.conf.Name,
	})
	if err != nil {
		return "", 0, err
	}

	messages := buildMessages(req, results)
	temperature := float32(req.GetSettings().GetTemperature())
	resp, err := cm.Generate(ctx, messages, einomodel.WithTemperature(temperature), einomodel.WithMaxTokens(maxCompletionTokens))
	if err != nil {
		return "", 0, err
	}

	tokens := util.EstimateTokens(resp.Content)
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		tokens = int64(resp.ResponseMeta.Usage.CompletionTokens)
	}
	return resp.Content, tokens, nil
}

// buildMessages 拼装模型输入, 工具结果以附加system消息的形式注入
func buildMessages(req *core_api.ChatReq, results []*tool.Result) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.Messages)+2)
	if req.System != "" {
		messages = append(messages, schema.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		content := m.PlainText()
		switch m.Role {
		case cst.Assistant:
			messages = append(messages, schema.AssistantMessage(content, nil))
		case cst.System:
			messages = append(messages, schema.SystemMessage(content))
		default:
			messages = append(messages, schema.UserMessage(content))
		}
	}
	if len(results) > 0 {
		var sb strings.Builder
		sb.WriteString("Tool execution results:\n")
		for _, r := range results {
			sb.WriteString("Tool " + r.Tool + ": ")
			if r.Err != "" {
				sb.WriteString(r.Err)
			} else {
				sb.WriteString(util.JSONF(r.Data))
			}
			sb.WriteString("\n")
		}
		messages = append(messages, schema.SystemMessage(sb.String()))
	}
	return messages
}
