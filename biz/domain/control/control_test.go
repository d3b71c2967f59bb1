package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache/memory"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

func TestAbortSignal(t *testing.T) {
	ctx := context.Background()
	m := NewAbortManager(memory.New())

	assert.False(t, m.IsAborted(ctx, "t1", "r1"))
	require.NoError(t, m.Signal(ctx, "t1", "r1"))
	assert.True(t, m.IsAborted(ctx, "t1", "r1"))
	// 幂等
	require.NoError(t, m.Signal(ctx, "t1", "r1"))
	assert.True(t, m.IsAborted(ctx, "t1", "r1"))
	// 其他运行不受影响
	assert.False(t, m.IsAborted(ctx, "t1", "r2"))
	assert.False(t, m.IsAborted(ctx, "t2", "r1"))
}

func TestContextStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewContextStore(memory.New())

	temp := 0.5
	rc := &RegenContext{
		UserId: "u1",
		Request: &core_api.ChatReq{
			ThreadId: "t1",
			System:   "Eres un asistente de marca",
			Messages: []*core_api.InputMessage{{
				Role:  cst.User,
				Parts: []*core_api.MessagePart{{Type: "text", Text: "hola"}},
			}},
			Settings: &core_api.Settings{Temperature: &temp, Persona: cst.PersonaMentor},
		},
	}
	require.NoError(t, s.Save(ctx, "t1", rc))

	got, err := s.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserId)
	assert.Equal(t, "t1", got.Request.ThreadId)
	assert.Equal(t, 0.5, got.Request.GetSettings().GetTemperature())
	assert.Equal(t, "hola", got.Request.Messages[0].PlainText())
}

func TestContextStoreMissing(t *testing.T) {
	s := NewContextStore(memory.New())
	_, err := s.Load(context.Background(), "missing")
	require.Error(t, err)
	var se *errorx.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int32(errno.RegenContextLostCode), se.GetCode())
}

func TestApplyNudgeInstruction(t *testing.T) {
	req := &core_api.ChatReq{System: "Base prompt"}

	got := ApplyNudge(req, cst.NudgeShorter)
	assert.Equal(t, "Base prompt\n\nRegeneration instruction: Please provide a more concise response, focusing on the key points.", got.System)

	got = ApplyNudge(req, "unknown")
	assert.Contains(t, got.System, "Please regenerate the response with a fresh perspective.")

	// 原请求不被修改
	assert.Equal(t, "Base prompt", req.System)
}

func TestApplyNudgeTemperature(t *testing.T) {
	temp := 0.9
	req := &core_api.ChatReq{Settings: &core_api.Settings{Temperature: &temp}}

	got := ApplyNudge(req, cst.NudgeCreative)
	assert.InDelta(t, 1.0, got.GetSettings().GetTemperature(), 1e-9)

	low := 0.05
	req = &core_api.ChatReq{Settings: &core_api.Settings{Temperature: &low}}
	got = ApplyNudge(req, cst.NudgeConcise)
	assert.InDelta(t, 0.0, got.GetSettings().GetTemperature(), 1e-9)

	// 无设置时从默认温度出发
	got = ApplyNudge(&core_api.ChatReq{}, cst.NudgeCreative)
	assert.InDelta(t, 0.9, got.GetSettings().GetTemperature(), 1e-9)
}
