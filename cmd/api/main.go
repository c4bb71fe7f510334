package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fashionmart/internal/config"
	"fashionmart/internal/domain/savedview"
	httpx "fashionmart/internal/http"
	"fashionmart/internal/logging"
	"fashionmart/internal/services/collection"
	"fashionmart/internal/services/refresh"
	"fashionmart/internal/services/views"
	"fashionmart/internal/store/cache"
	"fashionmart/internal/store/postgres"
	"fashionmart/internal/upstream"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := collection.NewMetrics(reg)

	// Page cache: redis when configured, in-process otherwise
	var store cache.Store
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Dial(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer rdb.Close()
		store = cache.NewRedis(rdb, "")
	} else {
		mem, err := cache.NewMemory(cfg.Cache.Size)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create page cache")
		}
		store = mem
	}

	client := upstream.New(upstream.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		Timeout:    cfg.Upstream.Timeout,
		RetryCount: cfg.Upstream.RetryCount,
	})
	fetcher := collection.NewFetcher(client, store, collection.FetcherConfig{
		PageSize: cfg.Upstream.PageSize,
		TTL:      cfg.Cache.TTL,
	}, metrics)

	sessions, err := collection.NewSessions(cfg.Session.Max, metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session store")
	}

	registry := collection.DefaultRegistry()
	collections := collection.NewService(registry, fetcher, sessions)

	// Saved views need postgres
	var saved *views.Service
	if cfg.DB.DSN != "" {
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		repo := postgres.NewRepo(pool)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		owners := savedview.NewOwners(cfg.Auth.JWTSecret)
		saved = views.NewService(repo.SavedViews(), registry).WithOwners(owners)
		collections.WithSavedViews(repo.SavedViews(), owners)
	} else {
		log.Warn().Msg("DB_DSN not set, saved views disabled")
	}

	worker := refresh.NewWorker(sessions, refresh.Policy(cfg.Session.Poll), cfg.Session.RefreshTick, cfg.Session.IdleTTL)
	go worker.Run(ctx)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:      cfg,
		Collections: collections,
		SavedViews:  saved,
		Metrics:     reg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Str("port", cfg.App.Port).
			Str("upstream", cfg.Upstream.BaseURL).
			Strs("resources", registry.Names()).
			Msg("Fashion Mart BFF listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
