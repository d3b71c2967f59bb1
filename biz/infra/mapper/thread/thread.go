package thread

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread 一个对话线程
type Thread struct {
	ThreadId   primitive.ObjectID `json:"thread_id" bson:"_id"`
	UserId     primitive.ObjectID `json:"user_id" bson:"user_id"`
	Title      string             `json:"title" bson:"title"`
	Persona    string             `json:"persona" bson:"persona"` // 默认persona, 可被单次请求覆盖
	CreateTime time.Time          `json:"create_time" bson:"create_time"`
	UpdateTime time.Time          `json:"update_time" bson:"update_time"`
	DeleteTime time.Time          `json:"delete_time,omitempty" bson:"delete_time,omitempty"`
	Status     int32              `json:"status" bson:"status"`
}
