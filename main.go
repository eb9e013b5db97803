// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/contract"
	"github.com/danielhkuo/quickly-rank/handlers"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/pinning"
	"github.com/danielhkuo/quickly-rank/proof"
	"github.com/danielhkuo/quickly-rank/router"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/danielhkuo/quickly-rank/submit"
)

const (
	pinTimeout     = 30 * time.Second
	gatewayTimeout = 15 * time.Second
	relayTimeout   = 15 * time.Second
	sweepInterval  = time.Minute
	shutdownGrace  = 5 * time.Second
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Election contract: relay when configured, in-memory localnet otherwise
	var election contract.Election
	if cfg.RelayURL != "" {
		election = contract.NewRelayClient(cfg.RelayURL, cfg.AppID, cfg.RelayToken, relayTimeout)
		slog.Info("Using contract relay", "url", cfg.RelayURL, "app_id", cfg.AppID)
	} else {
		election = contract.NewMemory(cfg.AppID)
		slog.Info("Using in-memory election", "app_id", cfg.AppID, "network", cfg.Network)
	}
	if cfg.SenderAddress == "" {
		slog.Warn("SENDER_ADDRESS not set; register and submit will be rejected")
	} else {
		slog.Info("Voter account", "address", auth.EllipseAddress(cfg.SenderAddress))
	}

	pipeline := &submit.Pipeline{
		Pinner:    pinning.NewClient(cfg.PinataAPIURL, cfg.PinataJWT, pinTimeout),
		Election:  election,
		SetupSeed: cfg.SetupSeed,
	}

	deps := handlers.Deps{
		Store:     session.NewStore(cfg.SessionTTL),
		Submitter: pipeline,
		Election:  election,
		Documents: pinning.NewGateway(cfg.PinataGatewayURL, cfg.PinataGatewayToken, gatewayTimeout),
	}

	if cfg.ProofsEnabled() {
		prover := proof.NewClient(cfg.ZKURL, cfg.ZKTimeout)
		pipeline.Prover = prover
		deps.Prover = prover
		slog.Info("Proofs enabled", "zk_url", cfg.ZKURL, "timeout_ms", cfg.ZKTimeout.Milliseconds())
	} else {
		slog.Warn("Proofs disabled; ballots are pinned without a proof")
	}

	// Create router
	mux := router.NewRouter(deps, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Start server
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return deps.Store.Run(ctx, sweepInterval)
	})

	// Wait for Ctrl-C signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
