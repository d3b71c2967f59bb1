package code

import "sync"

// code 维护全局错误码注册表
// 各errno包在init中注册错误码与默认文案

type definition struct {
	code            int32
	msg             string
	affectStability bool
}

var (
	mu       sync.RWMutex
	registry = map[int32]*definition{}
)

type RegisterOptionFn func(*definition)

// WithAffectStability 标记该错误是否影响服务稳定性指标
func WithAffectStability(affect bool) RegisterOptionFn {
	return func(d *definition) { d.affectStability = affect }
}

// Register 注册一个错误码, 重复注册以后注册的为准
func Register(code int32, msg string, opts ...RegisterOptionFn) {
	d := &definition{code: code, msg: msg}
	for _, opt := range opts {
		opt(d)
	}
	mu.Lock()
	registry[code] = d
	mu.Unlock()
}

// Lookup 查找错误码的默认文案
func Lookup(code int32) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := registry[code]
	if !ok {
		return "", false
	}
	return d.msg, true
}

// AffectStability 查询错误码是否影响稳定性
func AffectStability(code int32) bool {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := registry[code]
	return ok && d.affectStability
}
