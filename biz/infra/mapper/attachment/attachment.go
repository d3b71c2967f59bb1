package attachment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment 一个附件, 先签发pending行再由客户端直传
type Attachment struct {
	AttachmentId primitive.ObjectID `json:"attachment_id" bson:"_id"`
	UserId       primitive.ObjectID `json:"user_id" bson:"user_id"`
	ThreadId     primitive.ObjectID `json:"thread_id,omitempty" bson:"thread_id,omitempty"`
	Kind         string             `json:"kind" bson:"kind"` // pdf/image/audio/link
	Mime         string             `json:"mime" bson:"mime"`
	Name         string             `json:"name" bson:"name"`
	SizeBytes    int64              `json:"size_bytes" bson:"size_bytes"`
	Key          string             `json:"key" bson:"key"` // 对象存储key
	UploadStatus string             `json:"upload_status" bson:"upload_status"`
	CreateTime   time.Time          `json:"create_time" bson:"create_time"`
	UpdateTime   time.Time          `json:"update_time" bson:"update_time"`
	Status       int32              `json:"status" bson:"status"`
}
