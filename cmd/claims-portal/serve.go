// cmd/claims-portal/serve.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sendreceipt "claims-portal/internal/actions/notification/send-receipt"
	"claims-portal/internal/common/claimsapi"
	"claims-portal/internal/common/config"
	"claims-portal/internal/common/database"
	"claims-portal/internal/common/flash"
	commonhttp "claims-portal/internal/common/http"
	"claims-portal/internal/common/observability"
	"claims-portal/internal/common/view"
	"claims-portal/internal/server"
	"claims-portal/internal/settlement"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web portal and the health/metrics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(""); err != nil {
				return err
			}
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	cfg := a.cfg
	log := a.log
	log.Info("Starting claims portal", map[string]interface{}{
		"version":     version,
		"environment": cfg.App.Environment,
		"apiBaseURL":  cfg.API.BaseURL,
	})

	shutdownTracing, err := observability.InitTracing(cfg.Tracing, version)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracer shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	obs := observability.New(cfg.Tracing.ServiceName)
	defer obs.Shutdown()

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	store, ready, closeStore, err := a.flashStore()
	if err != nil {
		return err
	}
	defer closeStore()

	deps := server.Deps{
		Config: cfg,
		API:    claimsapi.NewClient(cfg.API.BaseURL, commonhttp.NewClient(config.GetDuration(cfg.API.Timeout)), obs, log),
		Flash:  store,
		Calc:   settlement.NewCalculator(),
		View:   renderer,
		Obs:    obs,
		Logger: log,
	}

	var pending *sendreceipt.Async
	receiptCfg := sendreceipt.LoadConfig(cfg)
	if receiptCfg.Enabled() && config.IsActionEnabled(cfg, sendreceipt.TaskType) {
		receipts, err := sendreceipt.NewHandler(receiptCfg, log)
		if err != nil {
			return fmt.Errorf("create send-receipt handler: %w", err)
		}
		pending = sendreceipt.NewAsync(receipts, log)
		deps.Receipts = pending
		log.Info("Receipt notifications enabled", map[string]interface{}{
			"email": receiptCfg.EmailEnabled,
			"sms":   receiptCfg.SMSEnabled,
		})
	}

	srv := server.New(cfg.Server, server.NewRouter(deps), ready, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-sigCh:
		log.Info("Shutdown signal received, draining requests...", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", map[string]interface{}{"error": err})
	}
	if pending != nil {
		if err := pending.Wait(shutdownCtx); err != nil {
			log.Warn("Receipts still in flight at exit", map[string]interface{}{"error": err})
		}
	}

	log.Info("Claims portal stopped gracefully", nil)
	return nil
}

// flashStore picks the configured backend. The returned ReadyFunc backs /ready.
func (a *app) flashStore() (flash.Store, server.ReadyFunc, func(), error) {
	ttl := time.Duration(a.cfg.Flash.TTLSeconds) * time.Second

	if a.cfg.Flash.Backend != "redis" {
		return flash.NewMemoryStore(ttl), nil, func() {}, nil
	}

	rdb, err := database.OpenRedis(context.Background(), a.cfg.Database.Redis)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("flash store: %w", err)
	}
	a.log.Info("Flash store on redis", map[string]interface{}{"address": a.cfg.Database.Redis.Address})

	closeFn := func() {
		if err := rdb.Close(); err != nil {
			a.log.Warn("redis close failed", map[string]interface{}{"error": err})
		}
	}
	return flash.NewRedisStore(rdb.Client(), a.cfg.Flash.KeyPrefix, ttl), rdb.Ping, closeFn, nil
}
