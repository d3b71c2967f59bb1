package core_api

// 对话相关DTO

import (
	"strings"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"
)

// MessagePart 一条消息的组成部分
type MessagePart struct {
	Type string `json:"type"` // text/image/file/code
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
	Mime string `json:"mime,omitempty"`
}

// InputMessage 请求中的一条消息
type InputMessage struct {
	Role  string         `json:"role"`
	Parts []*MessagePart `json:"parts"`
}

// PlainText 拼接全部可读片段
func (m *InputMessage) PlainText() string {
	values := make([]string, 0, len(m.Parts))
	for _, p := range m.Parts {
		if p.Text != "" {
			values = append(values, p.Text)
		} else if p.URL != "" {
			values = append(values, p.URL)
		}
	}
	return strings.Join(values, " ")
}

// Settings 单次对话设置
type Settings struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Persona     string   `json:"persona,omitempty"`
	BrandGuard  *bool    `json:"brandGuard,omitempty"`
}

func (s *Settings) GetModel() string {
	if s == nil {
		return ""
	}
	return s.Model
}

func (s *Settings) GetTemperature() float64 {
	if s == nil || s.Temperature == nil {
		return 0.7
	}
	return *s.Temperature
}

func (s *Settings) GetPersona() string {
	if s == nil {
		return ""
	}
	return s.Persona
}

// GetBrandGuard 品牌守卫默认开启
func (s *Settings) GetBrandGuard() bool {
	if s == nil || s.BrandGuard == nil {
		return true
	}
	return *s.BrandGuard
}

type ChatReq struct {
	ThreadId    string          `json:"threadId"`
	System      string          `json:"system,omitempty"`
	Messages    []*InputMessage `json:"messages"`
	Settings    *Settings       `json:"settings,omitempty"`
	Tools       []string        `json:"tools,omitempty"`
	Objective   string          `json:"objective,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
}

func (r *ChatReq) GetSettings() *Settings {
	if r == nil {
		return nil
	}
	return r.Settings
}

type AbortReq struct {
	ThreadId string `json:"threadId"`
	RunId    string `json:"runId"`
}

type AbortResp struct {
	Resp *basic.Response `json:"-"`
}

type RegenerateReq struct {
	ThreadId string `json:"threadId"`
	Nudge    string `json:"nudge,omitempty"` // creative/concise等
}
