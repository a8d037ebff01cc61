package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flemzord/ollagate/internal/backend"
	"github.com/flemzord/ollagate/internal/chat"
	"github.com/flemzord/ollagate/internal/config"
	"github.com/flemzord/ollagate/internal/gateway"
	"github.com/flemzord/ollagate/internal/metrics"
	"github.com/flemzord/ollagate/internal/probe"
	"github.com/flemzord/ollagate/internal/session"
	"github.com/flemzord/ollagate/internal/telemetry"
)

// runServe wires all components and serves until interrupted.
func runServe(cfg *config.Config) error {
	logger := telemetry.NewLogger(cfg.Log)

	ctx := context.Background()
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Telemetry, version)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	recorder := metrics.NewPromRecorder()
	store := session.NewInMemoryStore()
	client := backend.NewOllamaClient(cfg.Backend.BaseURL, cfg.Backend.HeaderTimeout, logger)
	orchestrator := chat.NewOrchestrator(store, client, recorder, cfg.Backend.DefaultModel, logger)
	gw := gateway.New(cfg, client, store, orchestrator, recorder, logger)

	var prober *probe.Prober
	if cfg.Probe.Enabled {
		prober = probe.New(client, recorder, cfg.Probe.Schedule, cfg.Backend.ProbeTimeout, logger)
		if err := prober.Start(); err != nil {
			return err
		}
	}

	if err := gw.Start(); err != nil {
		if prober != nil {
			prober.Stop()
		}
		return err
	}

	logger.Info("ollagate started",
		"backend", cfg.Backend.BaseURL,
		"model", cfg.Backend.DefaultModel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if prober != nil {
		prober.Stop()
	}
	return gw.Stop(ctx)
}
