// Package main runs the wallet analytics API server.
//
// Storage backends are selected by configuration: PostgreSQL for reports and
// users, Redis for the analytics cache, ClickHouse for the swap archive. Any
// backend left unconfigured falls back to its in-memory implementation, which
// is enough for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gabrxgomes/ShadowStats/internal/config"
	"github.com/gabrxgomes/ShadowStats/internal/helius"
	"github.com/gabrxgomes/ShadowStats/internal/server"
	"github.com/gabrxgomes/ShadowStats/internal/service"
	"github.com/gabrxgomes/ShadowStats/internal/storage"
	chstore "github.com/gabrxgomes/ShadowStats/internal/storage/clickhouse"
	"github.com/gabrxgomes/ShadowStats/internal/storage/memory"
	"github.com/gabrxgomes/ShadowStats/internal/storage/migrations"
	pgstore "github.com/gabrxgomes/ShadowStats/internal/storage/postgres"
	redisstore "github.com/gabrxgomes/ShadowStats/internal/storage/redis"
)

const purgeInterval = time.Hour

func main() {
	watchWallet := flag.String("watch-wallet", os.Getenv("WATCH_WALLET"), "Wallet to watch for live activity (requires HELIUS_WS_URL)")
	flag.Parse()

	cfg := config.MustLoad()

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.Info(cfg.RedactedSummary())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("create stores")
	}
	defer cleanup()

	client := helius.NewClient(cfg.HeliusAPIURL, cfg.HeliusAPIKey)

	svc := service.New(service.Options{
		History:  client,
		Reports:  stores.reports,
		Users:    stores.users,
		Cache:    stores.cache,
		Archive:  stores.archive,
		BaseURL:  cfg.BaseURL,
		CacheTTL: cfg.CacheTTL,
		Log:      log,
	})

	srv := server.New(cfg.ListenAddr, svc, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go runPurgeLoop(ctx, svc, log)

	if *watchWallet != "" && cfg.HeliusWSURL != "" {
		go runWatcher(ctx, cfg, *watchWallet, svc, log)
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("http server listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server")
			cancel()
		}
	}()

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}

	log.Info("shutdown complete")
}

// serviceStores holds the selected storage backends.
type serviceStores struct {
	reports storage.ReportStore
	users   storage.UserStore
	cache   storage.AnalyticsCache
	archive storage.SwapArchive
}

func createStores(ctx context.Context, cfg config.Config, log *logrus.Logger) (*serviceStores, func(), error) {
	stores := &serviceStores{
		reports: memory.NewReportStore(),
		users:   memory.NewUserStore(),
		cache:   memory.NewAnalyticsCache(),
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, err
		}
		stores.reports = pgstore.NewReportStore(pool)
		stores.users = pgstore.NewUserStore(pool)
		log.Info("postgres storage enabled")
	}

	if cfg.RedisAddr != "" {
		client, err := redisstore.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })
		stores.cache = redisstore.NewAnalyticsCache(client)
		log.Info("redis cache enabled")
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = conn.Close() })
		stores.archive = chstore.NewSwapArchive(conn)
		log.Info("clickhouse archive enabled")
	}

	return stores, cleanup, nil
}

// runPurgeLoop deletes expired reports on a fixed interval.
func runPurgeLoop(ctx context.Context, svc *service.Service, log *logrus.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PurgeExpiredReports(ctx); err != nil {
				log.WithError(err).Warn("purge expired reports")
			}
		}
	}
}

// runWatcher subscribes to live wallet activity and refreshes the analytics
// cache whenever a confirmed transaction mentions the wallet.
func runWatcher(ctx context.Context, cfg config.Config, wallet string, svc *service.Service, log *logrus.Logger) {
	watcher, err := helius.NewWatcher(ctx, cfg.HeliusWSURL+"/?api-key="+cfg.HeliusAPIKey, wallet, nil, log)
	if err != nil {
		log.WithError(err).Error("start wallet watcher")
		return
	}
	defer watcher.Close()

	log.WithField("wallet", wallet).Info("wallet watcher started")

	for {
		select {
		case <-ctx.Done():
			return
		case activity, ok := <-watcher.Events():
			if !ok {
				return
			}
			if activity.Failed {
				continue
			}
			log.WithFields(logrus.Fields{
				"wallet":    activity.Wallet,
				"signature": activity.Signature,
			}).Debug("wallet activity, refreshing analytics")
			if _, err := svc.Analyze(ctx, wallet, 0, true); err != nil {
				log.WithError(err).Warn("refresh analytics after activity")
			}
		}
	}
}
