package main

import (
	"go-rotc/internal/app"
	"go-rotc/internal/bootstrap"
	"go-rotc/internal/config"
	"go-rotc/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := bootstrap.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	ctx, stop := bootstrap.WaitForSignal()
	defer stop()

	if err := app.RunWorker(ctx, cfg); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
