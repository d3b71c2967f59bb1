package util

import (
	"fmt"
	"net/url"

	"github.com/bytedance/sonic"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"
)

// Success 返回成功的basic.Response指针
func Success() *basic.Response {
	return &basic.Response{
		Code: 200,
		Msg:  "success",
	}
}

// EstimateTokens 估算文本token数, 约4字符折算1个token
func EstimateTokens(text string) int64 {
	if len(text) == 0 {
		return 0
	}
	return int64((len(text) + 3) / 4)
}

// JSONF 将对象序列化为json字符串, 用于日志
func JSONF(v any) string {
	data, err := sonic.MarshalString(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return data
}

// Str2URL 解析URL, 解析失败时返回空URL
func Str2URL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		return &url.URL{}
	}
	return u
}
