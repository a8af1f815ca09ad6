package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/config"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/httpapi"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/logger"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/metrics"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/ratelimit"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Profile)
	defer logger.Sync()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Log.Infow(
		"starting dummy OpenAI API",
		"addr", addr,
		"profile", cfg.Profile,
		"tokensPerSec", cfg.TokensPerSec(),
		"defaultTokens", cfg.DefaultTokens,
	)

	metrics.Init()

	// One bucket for the whole process; every request shares it through the
	// gate, and the refiller resets it once a second until shutdown.
	bucket := ratelimit.NewBucket(cfg.TokensPerSec())
	metrics.RegisterAvailableGauge(bucket.Available)
	go bucket.RunRefiller(context.Background(), ratelimit.RefillInterval)

	handler := httpapi.NewHandler(cfg, ratelimit.NewGate(bucket))
	srv := httpapi.NewServer(addr, handler.Routes())

	// Handle SIGINT/SIGTERM for a clean shutdown in local dev / docker.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Log.Info("[dummy-openai-api] shutting down...")
		srv.GracefulStop()
	}()

	if err := srv.Run(); err != nil {
		logger.Log.Fatalw("[dummy-openai-api] server error", "err", err)
	}
}
