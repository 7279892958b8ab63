package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vn.io.arda/realtime/internal/application"
	"vn.io.arda/realtime/internal/config"
	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/infrastructure/postgres"
	kafkaconsumer "vn.io.arda/realtime/internal/kafka"
	"vn.io.arda/realtime/internal/messages"
	"vn.io.arda/realtime/internal/realtime"
	transporthttp "vn.io.arda/realtime/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting arda-realtime")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	log.Info().Msg("postgres connected")

	// ── Core: registry, hub, dispatcher ───────────────────────────────────────
	store := postgres.New(pool)
	registry := realtime.New()
	hub := transporthttp.NewHub(registry, cfg.Limits.SendBufferLen)
	dispatcher := application.NewDispatcher(registry, store, hub)

	presence := application.NewPresenceTracker(registry, store, cfg.Presence.Enabled, domain.ExclusionRules{
		Roles:        cfg.Presence.ExcludeRoles,
		ExcludeKiosk: cfg.Presence.ExcludeKiosk,
	})
	pollSvc := application.NewPollService(store, cfg.Limits.PollPageSize)
	batch := application.NewBatchNotifier(store, dispatcher)

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(dispatcher, pollSvc, presence, hub, cfg.Limits.EmitMaxBytes)
	router := transporthttp.NewRouter(handler)

	// ── Kafka Consumer ────────────────────────────────────────────────────────
	consumer, err := kafkaconsumer.New(
		cfg.Kafka.Brokers,
		cfg.Kafka.ConsumerGroupID,
		cfg.Kafka.Topics,
		dispatcher,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}

	go consumer.Start(ctx)
	log.Info().Strs("topics", cfg.Kafka.Topics).Msg("kafka consumer started")

	// ── Scheduled batch notify ────────────────────────────────────────────────
	// The ticker is the scheduler collaborator; the core only exposes RunBatch.
	if cfg.Batch.Enabled {
		go func() {
			interval := time.Duration(cfg.Batch.IntervalHours) * time.Hour
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					title, body := messages.DailyReminder()
					_, err := batch.RunBatch(context.Background(),
						domain.UserSelector{Category: cfg.Batch.Category},
						func(userID string) domain.NotificationRecord {
							return domain.NotificationRecord{
								UserID:   userID,
								Category: cfg.Batch.Category,
								Title:    title,
								Body:     body,
							}
						})
					if err != nil {
						log.Error().Err(err).Str("category", cfg.Batch.Category).Msg("scheduled batch notify failed")
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// ── Start HTTP Server ─────────────────────────────────────────────────────
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("arda-realtime stopped")
}
