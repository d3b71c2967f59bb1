package errno

import (
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx/code"
)

const (
	ChatErrCode          = 70001
	PolicyViolationCode  = 70002
	RegenerateErrCode    = 70003
	RegenContextLostCode = 70004
	AbortErrCode         = 70005
	GenerationFailedCode = 70006
)

func init() {
	code.Register(
		ChatErrCode,
		"对话生成失败",
		code.WithAffectStability(false),
	)
	code.Register(
		PolicyViolationCode,
		"内容不符合品牌规范",
		code.WithAffectStability(false),
	)
	code.Register(
		RegenerateErrCode,
		"重新生成失败",
		code.WithAffectStability(false),
	)
	code.Register(
		RegenContextLostCode,
		"对话上下文不存在",
		code.WithAffectStability(false),
	)
	code.Register(
		AbortErrCode,
		"中断请求失败",
		code.WithAffectStability(false),
	)
	code.Register(
		GenerationFailedCode,
		"模型生成失败",
		code.WithAffectStability(true),
	)
}
