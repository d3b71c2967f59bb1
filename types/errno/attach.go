package errno

import (
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx/code"
)

const (
	AttachSignErrCode     = 30001
	AttachMimeErrCode     = 30002
	AttachTooLargeErrCode = 30003
)

func init() {
	code.Register(
		AttachSignErrCode,
		"附件上传签名失败",
		code.WithAffectStability(false),
	)
	code.Register(
		AttachMimeErrCode,
		"不支持的附件类型",
		code.WithAffectStability(false),
	)
	code.Register(
		AttachTooLargeErrCode,
		"附件超出大小限制",
		code.WithAffectStability(false),
	)
}
