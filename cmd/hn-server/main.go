// Command hn-server serves paginated Hacker News top stories per reader session.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/hn-reader/internal/api"
	"github.com/Sternrassler/hn-reader/internal/config"
	"github.com/Sternrassler/hn-reader/pkg/feed"
	"github.com/Sternrassler/hn-reader/pkg/hn"
	"github.com/Sternrassler/hn-reader/pkg/loader"
	"github.com/Sternrassler/hn-reader/pkg/logging"
	"github.com/Sternrassler/hn-reader/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is fine; the environment wins over it.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	router, err := newRouter(cfg, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithCORS(router, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("hn_base_url", cfg.HNBaseURL).
			Int("story_limit", cfg.StoryLimit).
			Int("max_concurrency", cfg.MaxConcurrency).
			Msg("Starting hn-server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter wires the story pipeline and session manager behind the HTTP API.
func newRouter(cfg config.Config, store session.Store) (*gin.Engine, error) {
	client, err := hn.New(cfg.HN())
	if err != nil {
		return nil, fmt.Errorf("create hn client: %w", err)
	}

	stories := feed.NewService(client, loader.New(client, cfg.Loader()), cfg.StoryLimit)
	manager := session.NewManager(store, stories, cfg.Session())

	if cfg.LogLevel != logging.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewServer(manager).NewRouter(), nil
}

// newStore returns the Redis store when REDIS_URL is set, otherwise the
// in-process store.
func newStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("Using in-process session store")
		return session.NewMemoryStore(time.Minute), func() {}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(opt)

	store := session.NewRedisStore(redisClient)
	if err := store.Ping(ctx); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info().Str("addr", opt.Addr).Msg("Connected to Redis session store")

	return store, func() { redisClient.Close() }, nil
}
