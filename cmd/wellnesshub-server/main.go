package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kanishk-singh19/Wellness/internal/auth"
	"github.com/kanishk-singh19/Wellness/internal/config"
	"github.com/kanishk-singh19/Wellness/internal/httpapi"
	"github.com/kanishk-singh19/Wellness/internal/sessions"
	"github.com/kanishk-singh19/Wellness/internal/store"
	"github.com/kanishk-singh19/Wellness/internal/store/memory"
	"github.com/kanishk-singh19/Wellness/internal/store/postgres"
	"github.com/kanishk-singh19/Wellness/internal/telemetry"
	"github.com/kanishk-singh19/Wellness/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	shutdownTelemetry := telemetry.Setup("wellnesshub")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	var userStore store.UserStore
	var sessionStore store.SessionStore
	if cfg.DatabaseURL != "" {
		if err := postgres.RunMigrations(context.Background(), cfg.DatabaseURL); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer pool.Close()
		pg := postgres.NewStore(pool)
		userStore, sessionStore = pg, pg
	} else {
		log.Printf("DATABASE_URL not set, using in-memory store")
		mem := memory.NewStore()
		userStore, sessionStore = mem, mem
	}

	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	handler := httpapi.NewHandler(auth.NewService(userStore), sessions.NewService(sessionStore), tokens)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
	})

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(handler.Routes())), "wellnesshub")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("wellnesshub listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
