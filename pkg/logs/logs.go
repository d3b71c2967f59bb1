package logs

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"
)

// logs 统一日志入口, 底层使用go-zero logx

func Info(format string, v ...any) {
	logx.Infof(format, v...)
}

func Infof(format string, v ...any) {
	logx.Infof(format, v...)
}

func Error(format string, v ...any) {
	logx.Errorf(format, v...)
}

func Errorf(format string, v ...any) {
	logx.Errorf(format, v...)
}

func Warnf(format string, v ...any) {
	logx.Slowf(format, v...)
}

func CtxInfo(ctx context.Context, format string, v ...any) {
	logx.WithContext(ctx).Infof(format, v...)
}

func CtxInfof(ctx context.Context, format string, v ...any) {
	logx.WithContext(ctx).Infof(format, v...)
}

func CtxWarnf(ctx context.Context, format string, v ...any) {
	logx.WithContext(ctx).Slowf(format, v...)
}

func CtxErrorf(ctx context.Context, format string, v ...any) {
	logx.WithContext(ctx).Errorf(format, v...)
}

// CondErrorf cond为真时记录错误日志
func CondErrorf(cond bool, format string, v ...any) {
	if cond {
		logx.Errorf(format, v...)
	}
}
