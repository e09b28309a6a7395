package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-analyst/internal/logger"
	"stock-analyst/internal/server"
	"stock-analyst/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, creds, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	coord := initializeCoordinator(cfg, creds)
	reasoner := initializeReasoner(ctx, cfg, creds)
	analyzer := initializeAnalyst(coord, reasoner)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(analyzer).Routes(),
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "Server started", "addr", cfg.Server.Addr, "llm_provider", cfg.LLM.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Server failed", err)
			cancel()
		}
	}()

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Server shutdown failed", err)
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Tracer shutdown failed", err)
	}
}
