// Package gateway is the HTTP surface of ollagate. It exposes the
// chat endpoint, health and model probes, session management, the
// metrics scrape, and the embedded chat UI.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/flemzord/ollagate/internal/backend"
	"github.com/flemzord/ollagate/internal/chat"
	"github.com/flemzord/ollagate/internal/config"
	"github.com/flemzord/ollagate/internal/metrics"
	"github.com/flemzord/ollagate/internal/session"
)

// Gateway owns the HTTP server and its collaborators.
type Gateway struct {
	config       *config.Config
	logger       *slog.Logger
	server       *http.Server
	client       backend.Client
	store        session.Store
	orchestrator *chat.Orchestrator
	recorder     *metrics.PromRecorder
	startedAt    time.Time
}

// New wires a gateway from its collaborators.
func New(cfg *config.Config, client backend.Client, store session.Store, orchestrator *chat.Orchestrator, recorder *metrics.PromRecorder, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config:       cfg,
		logger:       logger,
		client:       client,
		store:        store,
		orchestrator: orchestrator,
		recorder:     recorder,
	}
}

// Start begins serving. Non-blocking; errors after startup are logged.
func (g *Gateway) Start() error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop performs a graceful shutdown with the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
