// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/accounts"
	"bookstore/internal/apierr"
	"bookstore/internal/cart"
	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/idempotency"
	"bookstore/internal/orders"
	"bookstore/internal/tracing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "bookstore-api").Logger()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.InitTracerProvider(context.Background(), "bookstore-api", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize tracer provider")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("failed to shut down tracer provider")
			}
		}()
	}

	var guard idempotency.Guard = idempotency.NewMemoryGuard()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		guard = idempotency.NewRedisGuard(redisClient, 24*time.Hour)
	}

	bookStore := catalog.NewPostgresStore(db)
	cartStore := cart.NewPostgresStore(db)
	orderStore := orders.NewPostgresStore(db)
	accountStore := accounts.NewPostgresStore(db)

	catalogSvc := catalog.NewService(bookStore)
	cartSvc := cart.NewService(cartStore, bookStore, log)
	accountSvc := accounts.NewService(accountStore)
	orderSvc := orders.NewService(
		orderStore, bookStore, cartSvc, accountSvc, guard,
		orders.ReservationConfig{MaxAttempts: cfg.ReserveMaxAttempts}, log,
	)

	catalogHandler := catalog.NewHandler(catalogSvc)
	cartHandler := cart.NewHandler(cartSvc)
	orderHandler := orders.NewHandler(orderSvc)
	accountHandler := accounts.NewHandler(accountSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/books", catalogHandler.Routes)
		r.Route("/cart", cartHandler.Routes)
		r.Route("/orders", orderHandler.Routes)
		r.Post("/auth/register", accountHandler.HandleRegister)
		r.Post("/auth/login", accountHandler.HandleLogin)
		r.Get("/profile", accountHandler.HandleProfile)
		r.Patch("/profile", accountHandler.HandleUpdateProfile)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			apierr.Write(w, apierr.Internal("database unreachable", err))
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("bookstore API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
