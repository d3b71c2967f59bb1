package control

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

const contextTTL = 24 * time.Hour

// RegenContext 保存一次对话的原始请求, 供重新生成时复用
type RegenContext struct {
	UserId  string            `json:"userId"`
	Request *core_api.ChatReq `json:"request"`
}

type ContextStore struct {
	store cache.Store
}

func NewContextStore(store cache.Store) *ContextStore {
	return &ContextStore{store: store}
}

func contextKey(threadId string) string {
	return cst.ChatContextPrefix + threadId
}

func (s *ContextStore) Save(ctx context.Context, threadId string, rc *RegenContext) error {
	raw, err := sonic.MarshalString(rc)
	if err != nil {
		return err
	}
	return s.store.SetEx(ctx, contextKey(threadId), raw, contextTTL)
}

func (s *ContextStore) Load(ctx context.Context, threadId string) (*RegenContext, error) {
	raw, err := s.store.Get(ctx, contextKey(threadId))
	if err != nil {
		if err == cache.Nil {
			return nil, errorx.New(errno.RegenContextLostCode)
		}
		return nil, err
	}
	rc := new(RegenContext)
	if err = sonic.UnmarshalString(raw, rc); err != nil {
		return nil, err
	}
	return rc, nil
}

// ApplyNudge 根据调整指令改写原始请求, 返回副本
func ApplyNudge(req *core_api.ChatReq, nudge string) *core_api.ChatReq {
	modified := *req
	var settings core_api.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	modified.Settings = &settings

	var instruction string
	switch nudge {
	case cst.NudgeShorter:
		instruction = "Please provide a more concise response, focusing on the key points."
	case cst.NudgeLonger:
		instruction = "Please provide a more detailed and comprehensive response with examples and explanations."
	case cst.NudgeCreative:
		instruction = "Please provide a more creative and innovative response with fresh perspectives."
	case cst.NudgeConcise:
		instruction = "Please provide a brief, to-the-point response without unnecessary details."
	default:
		instruction = "Please regenerate the response with a fresh perspective."
	}
	modified.System = req.System + "\n\nRegeneration instruction: " + instruction

	temperature := settings.GetTemperature()
	switch nudge {
	case cst.NudgeCreative:
		temperature = min(1.0, temperature+0.2)
		settings.Temperature = &temperature
	case cst.NudgeConcise:
		temperature = max(0.0, temperature-0.1)
		settings.Temperature = &temperature
	}
	return &modified
}
