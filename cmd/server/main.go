// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package main is the entry point for the Scoutdeck server.
//
// Scoutdeck serves swipe-based startup discovery: each user gets a session
// that presents one candidate at a time, records interested/pass votes with
// optimistic local writes, and reorders the remaining pool around the
// user's revealed preferences once they have cast enough votes.
//
// Startup order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml, env)
//  2. Logging: zerolog global logger
//  3. Progress store: BadgerDB (or in-memory when no path is configured)
//  4. Vote ledger and the circuit-broken vote persistence client
//  5. Catalog store plus its supervised refresher
//  6. WebSocket hub for live session events
//  7. HTTP server with the chi route tree
//
// All long-running pieces run under a suture supervision tree and shut
// down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scoutdeck/scoutdeck/internal/api"
	"github.com/scoutdeck/scoutdeck/internal/catalog"
	"github.com/scoutdeck/scoutdeck/internal/config"
	"github.com/scoutdeck/scoutdeck/internal/engine"
	"github.com/scoutdeck/scoutdeck/internal/ledger"
	"github.com/scoutdeck/scoutdeck/internal/logging"
	"github.com/scoutdeck/scoutdeck/internal/progress"
	"github.com/scoutdeck/scoutdeck/internal/session"
	"github.com/scoutdeck/scoutdeck/internal/supervisor"
	"github.com/scoutdeck/scoutdeck/internal/supervisor/services"
	"github.com/scoutdeck/scoutdeck/internal/voteapi"
	ws "github.com/scoutdeck/scoutdeck/internal/websocket"
)

// Version information, set at build time via ldflags.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scoutdeck: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Int("port", cfg.Server.Port).
		Msg("starting scoutdeck")

	// Completion progress outlives sessions and process restarts.
	prog, err := progress.Open(cfg.Progress.Path)
	if err != nil {
		return fmt.Errorf("open progress store: %w", err)
	}
	defer func() {
		if err := prog.Close(); err != nil {
			logging.Error().Err(err).Msg("closing progress store")
		}
	}()

	lg := ledger.New()

	persister := voteapi.NewBreakerClient(voteapi.NewClient(cfg.VoteAPI), cfg.VoteAPI)

	catalogStore := catalog.NewStore()
	catalogClient := catalog.NewClient(cfg.Catalog)

	hub := ws.NewHub()

	engineCfg := engine.Config{
		DiscoveryThreshold: cfg.Engine.DiscoveryThreshold,
		Weights: engine.Weights{
			Topic:   cfg.Engine.TopicWeight,
			Stage:   cfg.Engine.StageWeight,
			UseCase: cfg.Engine.UseCaseWeight,
		},
		PoolTarget:      cfg.Engine.PoolTarget,
		PreferenceRatio: cfg.Engine.PreferenceRatio,
	}

	manager := session.NewManager(lg, persister, prog, hub, engineCfg, cfg.Engine.SettleDelay, logging.Logger())
	catalogStore.Subscribe(manager.OnCatalog)

	handler := api.NewHandler(manager, catalogStore, prog, hub, cfg)
	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewCatalogService(catalogClient, catalogStore, cfg.Catalog.RefreshInterval))
	tree.AddMessagingService(services.NewWebSocketService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("supervision tree starting")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", fmt.Sprint(svc.Service)).Msg("service did not stop in time")
		}
	}

	logging.Info().Msg("scoutdeck stopped")
	return nil
}
