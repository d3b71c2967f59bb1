package errno

import (
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx/code"
)

const (
	ShareCreateErrCode   = 40001
	ShareNotFoundErrCode = 40002
	ShareRevokeErrCode   = 40003
)

func init() {
	code.Register(
		ShareCreateErrCode,
		"创建分享链接失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ShareNotFoundErrCode,
		"分享链接不存在或已过期",
		code.WithAffectStability(false),
	)
	code.Register(
		ShareRevokeErrCode,
		"撤销分享链接失败",
		code.WithAffectStability(false),
	)
}
