package message

import (
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	RoleStoI = map[string]int32{cst.System: 0, cst.Assistant: 1, cst.User: 2, cst.Tool: 3}
	RoleItoS = map[int32]string{0: cst.System, 1: cst.Assistant, 2: cst.User, 3: cst.Tool}
)

// 消息状态
const (
	StatusDefault     int32 = 0 // 正常
	StatusStreaming   int32 = 1 // 占位, 流式生成中
	StatusInterrupted int32 = 2 // 被中止
	StatusRegenerated int32 = 3 // 被重新生成替换
)

// Usage 一次生成的token用量
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens" bson:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens" bson:"completion_tokens"`
}

// Message 一条消息, 可能归属于用户或模型
type Message struct {
	MessageId  primitive.ObjectID `json:"message_id" bson:"_id"`                              // 主键
	ThreadId   primitive.ObjectID `json:"thread_id" bson:"thread_id"`                         // 归属的线程id
	UserId     primitive.ObjectID `json:"user_id" bson:"user_id"`                             // 用户id
	RunId      string             `json:"run_id,omitempty" bson:"run_id,omitempty"`           // 产生本消息的运行id, 只有模型消息有
	Role       int32              `json:"role" bson:"role"`                                   // 角色, system/assistant/user/tool, 依次为0,1,2,3
	Content    string             `json:"content" bson:"content"`                             // 文本内容
	Parts      string             `json:"parts,omitempty" bson:"parts,omitempty"`             // json字符串, 原始parts
	Persona    string             `json:"persona,omitempty" bson:"persona,omitempty"`         // 生成时使用的persona
	Usage      *Usage             `json:"usage,omitempty" bson:"usage,omitempty"`             // token用量, 只有模型消息有
	CreateTime time.Time          `json:"create_time" bson:"create_time"`                     // 创建时间
	UpdateTime time.Time          `json:"update_time" bson:"update_time"`                     // 更新时间
	DeleteTime time.Time          `json:"delete_time,omitempty" bson:"delete_time,omitempty"` // 删除时间
	Status     int32              `json:"status" bson:"status"`                               // 状态
}
