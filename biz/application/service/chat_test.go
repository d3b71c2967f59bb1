package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache/memory"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/limiter"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/types/errno"
)

func statusCode(t *testing.T, err error) int32 {
	t.Helper()
	var se *errorx.StatusError
	require.True(t, errors.As(err, &se))
	return se.GetCode()
}

func TestValidateChatReq(t *testing.T) {
	msg := &core_api.InputMessage{Role: "user", Parts: []*core_api.MessagePart{{Text: "hola"}}}
	settings := &core_api.Settings{Model: "gpt-4o-mini"}

	err := validateChatReq(&core_api.ChatReq{Settings: settings})
	require.Error(t, err)
	assert.Equal(t, int32(errno.ParamErrCode), statusCode(t, err))

	// 会话设置缺失同样拒绝
	err = validateChatReq(&core_api.ChatReq{Messages: []*core_api.InputMessage{msg}})
	require.Error(t, err)
	assert.Equal(t, int32(errno.ParamErrCode), statusCode(t, err))

	assert.NoError(t, validateChatReq(&core_api.ChatReq{Messages: []*core_api.InputMessage{msg}, Settings: settings}))
}

func TestRateLimitSetsHeaders(t *testing.T) {
	s := &ChatService{Limiter: limiter.New(memory.New(), config.RateLimit{PerMinute: 2, Burst: 10, BurstWindowS: 10})}
	c := &app.RequestContext{}

	require.NoError(t, s.rateLimit(context.Background(), c, "u1"))
	assert.Equal(t, "1", string(c.Response.Header.Peek("X-RateLimit-Remaining")))
	assert.NotEmpty(t, c.Response.Header.Peek("X-RateLimit-Reset"))
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	s := &ChatService{Limiter: limiter.New(memory.New(), config.RateLimit{PerMinute: 1, Burst: 10, BurstWindowS: 10})}
	ctx := context.Background()

	require.NoError(t, s.rateLimit(ctx, nil, "u1"))
	err := s.rateLimit(ctx, nil, "u1")
	require.Error(t, err)
	assert.Equal(t, int32(errno.RateLimitedCode), statusCode(t, err))
}
