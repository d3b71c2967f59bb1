package tool

import (
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

// Registry 工具注册表, dry_run模式下全部替换为mock
type Registry struct {
	adapters map[string]Adapter
	dryRun   bool
}

func NewRegistry(c *config.Config) *Registry {
	if c.DryRun {
		return &Registry{adapters: mockAdapters(), dryRun: true}
	}
	return &Registry{adapters: map[string]Adapter{
		cst.ToolWebSearch:  NewWebSearch(c.Providers),
		cst.ToolCalc:       NewCalculator(),
		cst.ToolPDFRead:    NewPDFReader(c.Providers),
		cst.ToolImageDesc:  NewImageDescriber(c.Providers),
		cst.ToolTranscribe: NewAudioTranscriber(c.Providers),
	}}
}

// Get 按名称取工具, 不存在时返回nil
func (r *Registry) Get(name string) Adapter {
	return r.adapters[name]
}

// Mode 返回当前执行模式
func (r *Registry) Mode() string {
	if r.dryRun {
		return cst.ModeDryRun
	}
	return cst.ModeLive
}
