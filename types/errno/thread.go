package errno

import (
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx/code"
)

const (
	ThreadCreateErrCode   = 20001
	ThreadRenameErrCode   = 20002
	ThreadListErrCode     = 20003
	ThreadGetErrCode      = 20004
	ThreadDeleteErrCode   = 20005
	ThreadNotFoundErrCode = 20006
)

func init() {
	code.Register(
		ThreadCreateErrCode,
		"创建会话失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ThreadRenameErrCode,
		"重命名会话失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ThreadListErrCode,
		"获取会话列表失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ThreadGetErrCode,
		"获取会话失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ThreadDeleteErrCode,
		"删除会话失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ThreadNotFoundErrCode,
		"会话不存在",
		code.WithAffectStability(false),
	)
}
