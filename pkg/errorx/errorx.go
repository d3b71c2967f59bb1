package errorx

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx/code"
)

// errorx 是带错误码的业务错误
// 最佳实践:
// - 业务处理链路的末端使用errorx, PostProcess处理后给出用户友好的响应
// - 错误码与默认文案通过types/errno注册
// - 除却末端的errorx外, 其余的error照常处理

const unknownCode = 999

// StatusError 携带错误码的错误, 可包装底层错误
type StatusError struct {
	code  int32
	msg   string
	extra map[string]string
	stack string
	cause error
}

type Option func(*StatusError)

// KV 为错误附加键值信息, 会拼接进错误文案
func KV(k, v string) Option {
	return func(e *StatusError) {
		if e.extra == nil {
			e.extra = map[string]string{}
		}
		e.extra[k] = v
	}
}

// New 根据错误码创建errorx
func New(c int32, opts ...Option) error {
	msg, ok := code.Lookup(c)
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", c)
	}
	e := &StatusError{code: c, msg: msg, stack: string(debug.Stack())}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WrapByCode 用错误码包装底层错误, err为nil时返回nil
func WrapByCode(err error, c int32, opts ...Option) error {
	if err == nil {
		return nil
	}
	var se *StatusError
	if errors.As(err, &se) { // 已经是errorx, 保留原错误码
		return err
	}
	msg, ok := code.Lookup(c)
	if !ok {
		msg = err.Error()
	}
	e := &StatusError{code: c, msg: msg, cause: err, stack: string(debug.Stack())}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("code=%d, msg=%s%s, stack=%s", e.code, e.msg, e.kvString(), e.stack)
}

func (e *StatusError) kvString() string {
	if len(e.extra) == 0 {
		return ""
	}
	var sb strings.Builder
	for k, v := range e.extra {
		sb.WriteString(fmt.Sprintf(", %s=%s", k, v))
	}
	return sb.String()
}

func (e *StatusError) Unwrap() error { return e.cause }

// GetCode 获取错误码
func (e *StatusError) GetCode() int32 { return e.code }

// GetMsg 获取用户友好文案
func (e *StatusError) GetMsg() string { return e.msg + e.kvString() }

// Code 提取错误码, 非errorx时返回unknownCode
func Code(err error) int32 {
	var se *StatusError
	if errors.As(err, &se) {
		return se.GetCode()
	}
	return unknownCode
}

// ErrorWithoutStack 返回不带堆栈的错误字符串, 用于日志
func ErrorWithoutStack(err error) string {
	if err == nil {
		return "<nil>"
	}
	var se *StatusError
	if errors.As(err, &se) {
		if se.cause != nil {
			return fmt.Sprintf("code=%d, msg=%s%s, cause=%s", se.code, se.msg, se.kvString(), se.cause.Error())
		}
		return fmt.Sprintf("code=%d, msg=%s%s", se.code, se.msg, se.kvString())
	}
	return err.Error()
}
