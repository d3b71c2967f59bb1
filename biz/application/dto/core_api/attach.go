package core_api

// 附件DTO

import "github.com/xh-polaris/brandstudio-core-api/biz/application/dto/basic"

type SignAttachmentReq struct {
	ThreadId  string `json:"threadId,omitempty"`
	Kind      string `json:"kind"` // pdf/image/audio/link
	Mime      string `json:"mime"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
}

type SignAttachmentResp struct {
	Resp         *basic.Response `json:"-"`
	AttachmentId string          `json:"attachmentId"`
	PresignedURL string          `json:"presignedUrl"`
	AccessURL    string          `json:"accessUrl"`
}

type CompleteAttachmentReq struct {
	AttachmentId string `json:"attachmentId"`
}

type CompleteAttachmentResp struct {
	Resp *basic.Response `json:"-"`
}
