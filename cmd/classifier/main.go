package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sunr3d/classify-suppliers/internal/config"
	"github.com/sunr3d/classify-suppliers/internal/entrypoint"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("ошибка создания логгера: %v", err)
	}
	defer logger.Sync()

	if err := entrypoint.Run(&cfg, logger); err != nil {
		logger.Fatal("сервис остановлен с ошибкой", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zcfg.Build()
}
