// Command server runs the donation tracker API. main wires dependencies and
// keeps the server lifecycle small; business logic lives in internal
// packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/lib/pq"

	"donationdesk/internal/auth"
	"donationdesk/internal/donation/handler"
	"donationdesk/internal/donation/service"
	"donationdesk/internal/donation/store"
	"donationdesk/internal/draft"
	"donationdesk/internal/mailer"
	"donationdesk/internal/platform/config"
	"donationdesk/internal/platform/httpserver"
	"donationdesk/internal/platform/metrics"
	"donationdesk/internal/platform/ratelimit"
	platformredis "donationdesk/internal/platform/redis"
)

func main() {
	cfg := config.FromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	var st service.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		st = store.NewPostgres(db)
		logger.Info("using postgres store")
	} else {
		st = store.NewInMemory()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	m := metrics.New()

	opts := []service.Option{service.WithMetrics(m)}
	sender, err := mailer.NewSMTPSender(cfg.SMTP, cfg.BusinessName)
	if err != nil {
		return err
	}
	if sender != nil {
		opts = append(opts, service.WithSender(sender))
	} else {
		logger.Warn("SMTP not configured, reply email disabled")
	}

	drafts, err := draft.NewGenerator(ctx, cfg.Draft, cfg.BusinessName)
	if err != nil {
		return err
	}
	if drafts != nil {
		opts = append(opts, service.WithDraftGenerator(drafts))
	} else {
		logger.Warn("GEMINI_API_KEY not set, draft generation disabled")
	}

	svc := service.New(st, logger, opts...)

	var counter ratelimit.Counter = ratelimit.NewMemoryCounter()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		counter = ratelimit.NewRedisCounter(redisClient.Client)
		logger.Info("rate limiting via redis")
	}
	limiter := ratelimit.New(counter, cfg.PublicRateLimit, cfg.PublicRateWindow, logger)

	h := handler.New(svc, auth.NewJWTService(cfg.JWTSigningKey), logger,
		handler.WithMetrics(m),
		handler.WithPublicLimiter(limiter.Middleware),
	)

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)
	logger.Info("starting donationdesk", "addr", cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
