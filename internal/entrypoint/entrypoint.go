package entrypoint

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/sunr3d/classify-suppliers/internal/api"
	"github.com/sunr3d/classify-suppliers/internal/config"
	"github.com/sunr3d/classify-suppliers/internal/infra/inmem"
	"github.com/sunr3d/classify-suppliers/internal/infra/script"
	"github.com/sunr3d/classify-suppliers/internal/middleware"
	"github.com/sunr3d/classify-suppliers/internal/server"
	"github.com/sunr3d/classify-suppliers/internal/services/classifier_service"
)

func Run(cfg *config.Config, log *zap.Logger) error {
	if err := os.MkdirAll(cfg.JobsDir, 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию для задач: %w", err)
	}
	log.Info("директория для задач готова", zap.String("path", cfg.JobsDir))

	if cfg.SQLAnyBase == "" {
		log.Warn("SQLANY_BASE не задан, запросы классификации будут отклонены")
	}

	srv := server.New(server.Options{
		Host:         cfg.HTTPHost,
		Port:         cfg.HTTPPort,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}, NewHandler(cfg, log), log)
	return srv.Start()
}

func NewHandler(cfg *config.Config, log *zap.Logger) http.Handler {
	registry := inmem.New(log, cfg.JobTTL)
	runner := script.New(log)
	svc := classifier_service.New(log, cfg, registry, runner)
	controller := api.New(svc, log, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", controller.Index)
	mux.HandleFunc("GET /healthz", controller.Health)
	mux.HandleFunc("GET /api/jobs", controller.ListJobs)
	mux.HandleFunc("POST /api/classify-suppliers", controller.ClassifySuppliers)

	router := http.Handler(mux)
	router = middleware.MultipartValidator()(router)
	router = middleware.ReqLogger(log)(router)
	router = middleware.Recovery(log)(router)
	router = middleware.RequestID()(router)

	return router
}
