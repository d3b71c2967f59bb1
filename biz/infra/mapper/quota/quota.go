package quota

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quota 用户在当前24小时周期内的累计用量, 每用户一行
type Quota struct {
	UserId       primitive.ObjectID `json:"user_id" bson:"_id"`
	PeriodStart  time.Time          `json:"period_start" bson:"period_start"`
	Tokens       int64              `json:"tokens" bson:"tokens"`
	Requests     int64              `json:"requests" bson:"requests"`
	AttachmentMB int64              `json:"attachment_mb" bson:"attachment_mb"`
	UpdateTime   time.Time          `json:"update_time" bson:"update_time"`
}
