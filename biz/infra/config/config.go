package config

import (
	"os"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/cache"
)

var config *Config

type Auth struct {
	SecretKey    string
	PublicKey    string
	AccessExpire int64
}

type Mongo struct {
	URL string
	DB  string
}

type Redis struct {
	Addr     string
	Password string `json:",optional"`
	DB       int    `json:",optional"`
}

// Model 生成后端配置, APIKey为空时走确定性mock生成
type Model struct {
	Name    string `json:",default=gpt-5"`
	BaseURL string `json:",optional"`
	APIKey  string `json:",optional"`
}

type COS struct {
	AppID     string `json:",optional"`
	BucketURL string `json:",optional"`
	CDN       string `json:",optional"`
	SecretID  string `json:",optional"`
	SecretKey string `json:",optional"`
}

// RateLimit 滑动窗口限流配置
type RateLimit struct {
	PerMinute    int `json:",default=30"`
	Burst        int `json:",default=10"`
	BurstWindowS int `json:",default=10"`
}

// Quota 单用户单周期配额上限
type Quota struct {
	MaxTokens       int64 `json:",default=200000"`
	MaxRequests     int64 `json:",default=1000"`
	MaxAttachmentMB int64 `json:",default=500"`
}

// Guard 品牌守卫规则集
type Guard struct {
	Banned []string `json:",optional"` // 违禁词, 命中即高危阻断
	Avoid  []string `json:",optional"` // 不建议用词, 中危
}

// Providers 工具适配器的外部后端密钥, 为空的后端在降级链中跳过
type Providers struct {
	GoogleAPIKey   string `json:",optional"`
	GoogleSearchCx string `json:",optional"`
	BingAPIKey     string `json:",optional"`
	WhisperAPIKey  string `json:",optional"`
	DeepgramAPIKey string `json:",optional"`
	VisionAPIKey   string `json:",optional"`
	PDFParserURL   string `json:",optional"`
}

type Config struct {
	service.ServiceConf
	ListenOn    string
	MetricsAddr string `json:",default=:9091"`
	DryRun      bool   `json:",default=false"` // 非生产/金丝雀环境下工具返回确定性mock结果
	Auth        Auth
	Mongo       Mongo
	Cache       cache.CacheConf `json:",optional"`
	Redis       Redis
	Model       Model
	COS         COS
	RateLimit   RateLimit
	Quota       Quota
	Guard       Guard
	Providers   Providers
}

func NewConfig() (*Config, error) {
	c := new(Config)
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "etc/config.yaml"
	}
	err := conf.Load(path, c)
	if err != nil {
		return nil, err
	}
	err = c.SetUp()
	if err != nil {
		return nil, err
	}
	config = c
	return config, nil
}

func GetConfig() *Config {
	return config
}

// SetConfig 测试用
func SetConfig(c *Config) {
	config = c
}
