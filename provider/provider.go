package provider

import (
	"github.com/google/wire"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/service"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/control"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/guard"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/model"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/orchestrator"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/tool"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cache/redis"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/limiter"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/attachment"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/event"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/message"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/quota"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/sharelink"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/mapper/thread"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/storage"
)

var provider *Provider

func Init() {
	var err error
	provider, err = NewProvider()
	if err != nil {
		panic(err)
	}
}

// Provider 提供controller依赖的对象
type Provider struct {
	Config        *config.Config
	ChatService   service.IChatService
	ThreadService service.IThreadService
	AttachService service.IAttachService
	ShareService  service.IShareService
}

func Get() *Provider {
	return provider
}

// NewLimiter 限流器绑定限流配置段
func NewLimiter(store cache.Store, c *config.Config) *limiter.Limiter {
	return limiter.New(store, c.RateLimit)
}

// NewGuard 品牌守卫绑定规则配置段
func NewGuard(c *config.Config) *guard.Guard {
	return guard.New(c.Guard)
}

var ApplicationSet = wire.NewSet(
	service.ChatServiceSet,
	service.ThreadServiceSet,
	service.AttachServiceSet,
	service.ShareServiceSet,
)

var DomainSet = wire.NewSet(
	orchestrator.OrchestratorSet,
	control.NewAbortManager,
	control.NewContextStore,
	NewGuard,
	tool.NewRegistry,
	model.NewGenerator,
)

var InfraSet = wire.NewSet(
	config.NewConfig,
	redis.New,
	cache.NewStore,
	NewLimiter,
	storage.NewCOS,
	thread.NewThreadMongoMapper,
	message.NewMessageMongoMapper,
	event.NewEventMongoMapper,
	quota.NewQuotaMongoMapper,
	attachment.NewAttachmentMongoMapper,
	sharelink.NewShareLinkMongoMapper,
)

var AllProvider = wire.NewSet(
	ApplicationSet,
	DomainSet,
	InfraSet,
)
