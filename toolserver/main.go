package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/thomasfsr/fitgenius/src/agent"
	"github.com/thomasfsr/fitgenius/src/blob"
	"github.com/thomasfsr/fitgenius/src/config"
	"github.com/thomasfsr/fitgenius/src/database"
	"github.com/thomasfsr/fitgenius/src/fitness"
	"github.com/thomasfsr/fitgenius/src/llm"
	"github.com/thomasfsr/fitgenius/src/search"
	"github.com/thomasfsr/fitgenius/src/server"
	"github.com/thomasfsr/fitgenius/src/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	log := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("toolserver stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := database.Open(ctx, database.Options{
		Driver:      cfg.ProgressStore,
		SQLitePath:  cfg.SQLitePath,
		PostgresURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info().Str("store", cfg.ProgressStore).Int("window", cfg.ProgressWindow).Msg("progress store ready")

	objects, closeObjects, err := openObjects(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeObjects()

	deps := tools.Deps{
		Tracker:  fitness.NewTracker(store, cfg.ProgressWindow),
		Objects:  objects,
		Searcher: search.Stub{},
	}
	if cfg.SearchURL != "" {
		deps.Searcher = search.NewHTMLSearcher(cfg.SearchURL, 5)
	}

	var processor server.Processor
	registry := tools.NewRegistry(log.With().Str("component", "tools").Logger())
	if cfg.AgentEnabled() {
		client := llm.NewClient(cfg.LLM)
		deps.Vision = llm.NewVision(client, cfg.LLM.VisionModel)
		processor = agent.New(client, cfg.LLM.Model, registry, log.With().Str("component", "agent").Logger())
	} else {
		log.Warn().Msg("no LLM API key configured: body_analyzer and /api/agent are unavailable")
	}
	if err := tools.RegisterAll(registry, deps); err != nil {
		return err
	}

	srv := server.New(
		server.Options{Addr: cfg.HTTPAddr, AllowedOrigins: cfg.CORSAllowedOrigins},
		server.NewHandler(registry, processor, cfg.JWTSecret, log.With().Str("component", "http").Logger()),
	)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Strs("tools", registry.Names()).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openObjects(ctx context.Context, cfg *config.Config) (blob.Store, func(), error) {
	switch cfg.ObjectStore {
	case "dir":
		s, err := blob.NewDirStore(cfg.ObjectDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "redis":
		rdb, err := database.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return blob.NewRedisStore(rdb), func() { rdb.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
