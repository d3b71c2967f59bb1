package sharelink

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShareLink 线程的只读/协作分享链接
type ShareLink struct {
	ShareId    primitive.ObjectID `json:"share_id" bson:"_id"`
	Token      string             `json:"token" bson:"token"` // 随机串, 链接凭据
	ThreadId   primitive.ObjectID `json:"thread_id" bson:"thread_id"`
	UserId     primitive.ObjectID `json:"user_id" bson:"user_id"`
	Mode       string             `json:"mode" bson:"mode"`   // read/write
	Scope      string             `json:"scope" bson:"scope"` // public/internal/private
	ExpireTime time.Time          `json:"expire_time,omitempty" bson:"expire_time,omitempty"`
	CreateTime time.Time          `json:"create_time" bson:"create_time"`
	Status     int32              `json:"status" bson:"status"`
}
