// Command server runs the nexus HTTP service: it loads YouTube video
// transcripts into per-session vector indexes and answers questions
// grounded in them.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexusai/nexus/internal/api"
	"github.com/nexusai/nexus/internal/config"
	"github.com/nexusai/nexus/internal/core"
	"github.com/nexusai/nexus/pkg/answer"
	"github.com/nexusai/nexus/pkg/embedding"
	"github.com/nexusai/nexus/pkg/observability"
	"github.com/nexusai/nexus/pkg/transcript"
)

func main() {
	configPath := flag.String("config", os.Getenv("NEXUS_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		observability.NewLogger("main").Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}

	logger := observability.NewLoggerWithLevel("nexus", cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Errorf("failed to initialize tracing: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warnf("tracing shutdown: %v", err)
		}
	}()

	embedder, err := embedding.NewProvider(ctx, cfg.Embedding)
	if err != nil {
		logger.Errorf("failed to build embedding provider: %v", err)
		os.Exit(1)
	}

	llm, err := answer.NewClient(ctx, cfg.Answer)
	if err != nil {
		logger.Errorf("failed to build answer client: %v", err)
		os.Exit(1)
	}

	source := transcript.NewYouTubeSource(transcript.WithLogger(logger.WithPrefix("transcript")))

	engine, err := core.NewEngine(cfg.Core, source, embedder, llm, logger.WithPrefix("engine"))
	if err != nil {
		logger.Errorf("failed to build engine: %v", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg.API, engine, logger.WithPrefix("api"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down", nil)
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}
}
