package errno

import (
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx/code"
)

const (
	UnAuthErrCode      = 1000
	ForbiddenRoleCode  = 1001
	ParamErrCode       = 1002
	RateLimitedCode    = 1003
	QuotaExceededCode  = 1004
	UnImplementErrCode = 888
	OIDErrCode         = 777
	InterruptCode      = 666
)

func init() {
	code.Register(
		UnAuthErrCode,
		"身份认证失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ForbiddenRoleCode,
		"无访问权限",
		code.WithAffectStability(false),
	)
	code.Register(
		ParamErrCode,
		"请求参数缺失或非法",
		code.WithAffectStability(false),
	)
	code.Register(
		RateLimitedCode,
		"请求过于频繁",
		code.WithAffectStability(false),
	)
	code.Register(
		QuotaExceededCode,
		"配额已用尽",
		code.WithAffectStability(false),
	)
	code.Register(
		UnImplementErrCode,
		"功能暂未实现",
		code.WithAffectStability(true),
	)
	code.Register(
		OIDErrCode,
		"ID格式非法",
		code.WithAffectStability(false),
	)
	code.Register(
		InterruptCode,
		"生成已中断",
		code.WithAffectStability(false),
	)
}
