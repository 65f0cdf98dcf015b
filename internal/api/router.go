package api

import (
	"github.com/gin-gonic/gin"

	"github.com/posdesk/printd/internal/api/handlers"
	"github.com/posdesk/printd/internal/api/middleware"
	"github.com/posdesk/printd/internal/config"
	"github.com/posdesk/printd/internal/db"
	"github.com/posdesk/printd/internal/registry"
)

func NewRouter(cfg *config.Config, reg *registry.Registry, runner handlers.JobRunner, settings *db.SettingsStore, version string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	auth := middleware.NewPrintKeyAuth(reg, cfg.Auth.Enabled)
	printerHandler := handlers.NewPrinterHandler(reg, nil, cfg.Probe.ListTimeout)
	printHandler := handlers.NewPrintHandler(reg, runner)
	serverHandler := handlers.NewServerHandler(settings, version)

	r.GET("/healthz", serverHandler.Health)

	apiGroup := r.Group("/api")
	apiGroup.GET("/printers", printerHandler.ListPrinters)
	apiGroup.GET("/server", serverHandler.Info)

	r.POST("/print", auth.Gate(), printHandler.Dispatch)

	return r
}
