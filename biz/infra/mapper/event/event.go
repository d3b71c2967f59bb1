package event

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event 运行事件日志, 只追加
type Event struct {
	EventId    primitive.ObjectID `json:"event_id" bson:"_id"`
	ThreadId   primitive.ObjectID `json:"thread_id" bson:"thread_id"`
	RunId      string             `json:"run_id" bson:"run_id"`
	UserId     primitive.ObjectID `json:"user_id" bson:"user_id"`
	Type       string             `json:"type" bson:"type"`       // 事件类型, 与sse事件类型一致
	Payload    string             `json:"payload" bson:"payload"` // json字符串
	CreateTime time.Time          `json:"create_time" bson:"create_time"`
}
