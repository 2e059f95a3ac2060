package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobhunt/aggregator-service/internal/alert"
	"jobhunt/aggregator-service/internal/api"
	"jobhunt/aggregator-service/internal/config"
	"jobhunt/aggregator-service/internal/db"
	"jobhunt/aggregator-service/internal/ingest"
	"jobhunt/aggregator-service/internal/notify"
	"jobhunt/aggregator-service/internal/scheduler"
	"jobhunt/aggregator-service/internal/scraper"
	"jobhunt/aggregator-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[main] postgres: %v", err)
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[main] redis: %v", err)
	}
	defer rdb.Close()

	st := store.NewPostgres(pool)
	if err := st.InitSchema(ctx); err != nil {
		log.Fatalf("[main] schema: %v", err)
	}

	httpClient := scraper.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
	scrapers := []scraper.Scraper{
		scraper.NewHackerNews(httpClient),
		scraper.NewRemoteOK(httpClient),
		scraper.NewRemotive(httpClient),
		scraper.NewWeWorkRemotely(httpClient),
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramBotToken != "" {
		notifier = notify.NewTelegram(cfg.TelegramBotToken)
	} else {
		log.Println("[main] TELEGRAM_BOT_TOKEN not set — running in scrape-only mode")
	}

	coordinator := ingest.New(st, scrapers)
	matcher := alert.New(st, notifier)

	sched := scheduler.New(coordinator, matcher, rdb, cfg.ScrapeIntervalMin, cfg.AlertIntervalMin)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[main] scheduler: %v", err)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewServer(st, rdb).Handler(),
	}
	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("[main] shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] http shutdown: %v", err)
	}
	cancel()
}
