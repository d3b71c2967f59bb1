package core_api

// 线程管理DTO

import "github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"

// Thread 线程视图
type Thread struct {
	ThreadId   string `json:"threadId"`
	Title      string `json:"title"`
	Persona    string `json:"persona,omitempty"`
	CreateTime int64  `json:"createTime"`
	UpdateTime int64  `json:"updateTime"`
}

// Message 消息视图
type Message struct {
	MessageId  string `json:"messageId"`
	Role       string `json:"role"`
	Content    string `json:"content"`
	Persona    string `json:"persona,omitempty"`
	Usage      *Usage `json:"usage,omitempty"`
	CreateTime int64  `json:"createTime"`
}

// Usage token用量视图
type Usage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
}

type CreateThreadReq struct {
	Title   string `json:"title,omitempty"`
	Persona string `json:"persona,omitempty"`
}

type CreateThreadResp struct {
	Resp     *basic.Response `json:"-"`
	ThreadId string          `json:"threadId"`
}

type RenameThreadReq struct {
	ThreadId string `json:"threadId"`
	Title    string `json:"title"`
}

type RenameThreadResp struct {
	Resp *basic.Response `json:"-"`
}

type ListThreadReq struct {
	Page *basic.Page `json:"page,omitempty"`
}

type ListThreadResp struct {
	Resp    *basic.Response `json:"-"`
	Threads []*Thread       `json:"threads"`
	HasMore bool            `json:"hasMore"`
}

type GetThreadReq struct {
	ThreadId string      `json:"threadId"`
	Page     *basic.Page `json:"page,omitempty"`
}

type GetThreadResp struct {
	Resp     *basic.Response `json:"-"`
	Thread   *Thread         `json:"thread"`
	Messages []*Message      `json:"messages"`
	HasMore  bool            `json:"hasMore"`
}

type DeleteThreadReq struct {
	ThreadId string `json:"threadId"`
}

type DeleteThreadResp struct {
	Resp *basic.Response `json:"-"`
}
