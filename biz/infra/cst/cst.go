package cst

const (
	// Assistant is the role of an assistant, means the message is returned by ChatModel.
	Assistant = "assistant"
	// User is the role of a user, means the message is a user message.
	User = "user"
	// System is the role of a system, means the message is a system message.
	System = "system"
	// Tool is the role of a tool, means the message carries a tool result.
	Tool = "tool"
)

// 运行阶段, 严格有序
const (
	StageReady    = "ready"
	StageAnalyze  = "analyze"
	StagePlan     = "plan"
	StageTool     = "tool"
	StageGenerate = "generate"
	StageFinalize = "finalize"
	StageDone     = "done"
	StageError    = "error"
)

// sse事件类型
const (
	EventReady = "ready"
	EventState = "state"
	EventTool  = "tool"
	EventToken = "token"
	EventUsage = "usage"
	EventError = "error"
	EventDone  = "done"
)

// 工具名称
const (
	ToolWebSearch  = "web.run"
	ToolCalc       = "calc"
	ToolPDFRead    = "pdf.read"
	ToolImageDesc  = "image.describe"
	ToolTranscribe = "audio.transcribe"
)

// 工具执行模式
const (
	ModeDryRun = "dry_run"
	ModeLive   = "live"
)

// 运行终止错误码(事件内)
const (
	CodePolicyViolation = "BRAND_GUARD_VIOLATION"
	CodeAborted         = "OPERATION_ABORTED"
	CodeOrchestration   = "ORCHESTRATION_ERROR"
)

// 消息part类型
const (
	PartText  = "text"
	PartImage = "image"
	PartFile  = "file"
	PartCode  = "code"
)

// persona枚举
const (
	PersonaMentor   = "mentor"
	PersonaPlanner  = "planner"
	PersonaEngineer = "engineer"
)

// nudge枚举
const (
	NudgeShorter  = "shorter"
	NudgeLonger   = "longer"
	NudgeCreative = "creative"
	NudgeConcise  = "concise"
)

// 附件kind
const (
	AttachPDF   = "pdf"
	AttachImage = "image"
	AttachAudio = "audio"
	AttachLink  = "link"
)

// 附件上传状态
const (
	UploadPending  = "pending"
	UploadComplete = "complete"
)

// 分享链接枚举
const (
	ShareModeRead  = "read"
	ShareModeWrite = "write"
	ScopePublic    = "public"
	ScopeInternal  = "internal"
	ScopePrivate   = "private"
)

// 鉴权角色, 所有chat操作要求internal
const RoleInternal = "internal"

// mapper层字段枚举
const (
	Id         = "_id"
	ThreadId   = "thread_id"
	MessageId  = "message_id"
	Owner      = "owner"
	UserId     = "user_id"
	Token      = "token"
	CreateTime = "create_time"
	UpdateTime = "update_time"
	DeleteTime = "delete_time"
	Brief      = "brief"

	Status        = "status"
	DeletedStatus = -1

	PeriodStart = "period_start"

	Title   = "title"
	Persona = "persona"

	Tokens       = "tokens"
	Requests     = "requests"
	AttachmentMB = "attachment_mb"

	NE          = "$ne"
	LT          = "$lt"
	LTE         = "$lte"
	GT          = "$gt"
	GTE         = "$gte"
	Set         = "$set"
	SetOnInsert = "$setOnInsert"
	Inc         = "$inc"
	Regex       = "$regex"
	Options     = "$options"
)

// redis键前缀
const (
	RateLimitPrefix   = "rate_limit:"
	RateBurstPrefix   = "rate_limit_burst:"
	AbortPrefix       = "abort_request:"
	ChatContextPrefix = "chat_context:"
)
