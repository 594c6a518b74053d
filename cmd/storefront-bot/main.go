package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/config"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/events"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/logger"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/shop"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/store"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewLogger()
	defer log.Close()

	cfg := config.Load()
	if cfg.Bot.Token == "" {
		log.Fatal("CONFIG", "BOT_TOKEN is not set")
	}

	// --- SQLite Setup ---
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.Path)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("open %s: %v", cfg.Database.Path, err))
	}
	defer sqldb.Close()

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	if err := store.Migrate(bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("migrate: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("schema ready at %s", cfg.Database.Path))

	// --- Dependencies ---
	db := &store.DB{Bun: bunDB}

	var publisher shop.OrderPublisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", fmt.Sprintf("publishing order events to %s", cfg.Kafka.Topic))
	}

	service := shop.NewService(db, publisher, log, cfg.Bot.StoreName, cfg.Bot.PaymentAddress, cfg.Bot.AdminIDs)
	router := shop.NewRouter(service, log)

	client := telegram.NewClient(cfg.Bot.Token)
	bot := telegram.NewBot(client, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- HTTP Server ---
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Bot.Mode == config.ModeWebhook {
		r.Post("/webhook/{secret}", bot.WebhookHandler(cfg.Bot.WebhookSecret))
		log.Info("TELEGRAM", "webhook mode, expecting updates at /webhook/<secret>")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("listening on %s", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", err.Error())
		}
	}()

	// --- Update Delivery ---
	if cfg.Bot.Mode == config.ModePolling {
		poller := &telegram.Poller{
			Client:  client,
			Bot:     bot,
			Log:     log,
			Timeout: cfg.Bot.PollTimeout,
		}
		go poller.Run(ctx)
		log.Info("TELEGRAM", "polling for updates")
	}

	log.Info("BOT", fmt.Sprintf("%s is up", cfg.Bot.StoreName))

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("BOT", "shutdown signal received")

	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("SERVER", fmt.Sprintf("forced shutdown: %v", err))
	}
	log.Info("BOT", "stopped")
}
