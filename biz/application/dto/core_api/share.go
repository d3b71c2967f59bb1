package core_api

// 分享DTO

import "github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"

type CreateShareLinkReq struct {
	ThreadId    string `json:"threadId"`
	Mode        string `json:"mode,omitempty"`  // read/write, 默认read
	Scope       string `json:"scope,omitempty"` // public/internal/private, 默认internal
	ExpireHours int64  `json:"expireHours,omitempty"`
}

type CreateShareLinkResp struct {
	Resp  *basic.Response `json:"-"`
	Token string          `json:"token"`
}

type GetSharedThreadReq struct {
	Token string      `json:"token"`
	Page  *basic.Page `json:"page,omitempty"`
}

type GetSharedThreadResp struct {
	Resp     *basic.Response `json:"-"`
	Thread   *Thread         `json:"thread"`
	Messages []*Message      `json:"messages"`
	HasMore  bool            `json:"hasMore"`
}

type RevokeShareLinkReq struct {
	Token string `json:"token"`
}

type RevokeShareLinkResp struct {
	Resp *basic.Response `json:"-"`
}
