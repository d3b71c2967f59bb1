package main

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/cors"
	prometheus "github.com/hertz-contrib/monitor-prometheus"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	"github.com/xh-polaris/brandstudio-core-api/biz/adaptor/controller/core_api"
	"github.com/xh-polaris/brandstudio-core-api/provider"
)

func main() {
	provider.Init()
	c := provider.Get().Config

	tracer, cfg := hertztracing.NewServerTracer()
	h := server.Default(
		server.WithHostPorts(c.ListenOn),
		server.WithTracer(prometheus.NewServerTracer(c.MetricsAddr, "/metrics", prometheus.WithEnableGoCollector(true))),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(cfg))
	h.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"X-RateLimit-Remaining", "X-RateLimit-Reset"},
	}))

	register(h)
	h.Spin()
}

func register(h *server.Hertz) {
	chat := h.Group("/chat")
	chat.POST("/stream", core_api.Chat)
	chat.POST("/abort", core_api.Abort)
	chat.POST("/regenerate", core_api.Regenerate)

	thread := h.Group("/thread")
	thread.POST("/create", core_api.CreateThread)
	thread.POST("/rename", core_api.RenameThread)
	thread.POST("/list", core_api.ListThread)
	thread.POST("/get", core_api.GetThread)
	thread.POST("/delete", core_api.DeleteThread)

	attach := h.Group("/attach")
	attach.POST("/sign", core_api.SignAttachment)
	attach.POST("/complete", core_api.CompleteAttachment)

	share := h.Group("/share")
	share.POST("/create", core_api.CreateShareLink)
	share.POST("/get", core_api.GetSharedThread)
	share.POST("/revoke", core_api.RevokeShareLink)
}
