package main

import (
	"net/http"

	"github.com/privacymoney/shield-wallet/internal/api"
	"github.com/privacymoney/shield-wallet/internal/config"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := config.Init(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	router, err := api.SetupRouter(logger)
	if err != nil {
		logger.Fatal("failed to set up router", zap.Error(err))
	}

	addr := ":" + config.GetPort()
	logger.Info("shield wallet service listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
