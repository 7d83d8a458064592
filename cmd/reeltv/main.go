package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reeltv/reeltv/internal/api"
	"github.com/reeltv/reeltv/internal/config"
	"github.com/reeltv/reeltv/internal/database"
	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/favorites"
	"github.com/reeltv/reeltv/internal/logger"
	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/metadata"
	"github.com/reeltv/reeltv/internal/metadata/mock"
	"github.com/reeltv/reeltv/internal/metadata/tmdb"
	"github.com/reeltv/reeltv/internal/preferences"
	"github.com/reeltv/reeltv/internal/recommendation"
	"github.com/reeltv/reeltv/internal/repository"
	"github.com/reeltv/reeltv/internal/scheduler"
	"github.com/reeltv/reeltv/internal/scheduler/tasks"
	"github.com/reeltv/reeltv/internal/startup"
	"github.com/reeltv/reeltv/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	initConfig := flag.String("init-config", "", "Write a default config file to this path and exit")
	offline := flag.Bool("offline", false, "Serve the built-in catalog instead of TMDb")
	flag.Parse()

	if *initConfig != "" {
		if err := config.WriteDefault(*initConfig); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting ReelTV")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefs := preferences.NewService(db.Conn(), preferences.BrowsePreferences{
		Language:     cfg.TMDB.Language,
		IncludeAdult: cfg.TMDB.IncludeAdult,
	})
	if stored, err := prefs.GetBrowsePreferences(ctx); err == nil {
		cfg.TMDB.Language = stored.Language
		cfg.TMDB.IncludeAdult = stored.IncludeAdult
		log.Info().Str("language", stored.Language).Msg("loaded browse preferences from database")
	} else {
		log.Warn().Err(err).Msg("failed to read browse preferences, using config")
	}

	var remote metadata.TMDBClient
	if *offline {
		log.Warn().Msg("offline mode, serving the built-in catalog")
		remote = mock.NewTMDBClient()
	} else {
		client := tmdb.NewClient(cfg.TMDB, log.WithComponent("tmdb"))
		if !client.IsConfigured() {
			log.Fatal().Msg("no TMDb API key configured; set REELTV_TMDB_API_KEY or run with -offline")
		}
		if err := startup.CheckRemote(ctx, client, startup.DefaultRetryConfig(), log.Logger); err != nil {
			log.Warn().Err(err).Msg("TMDb unreachable, screens will show no data until the network is restored")
		}
		prefs.OnChange(func(p preferences.BrowsePreferences) {
			client.SetBrowseOptions(p.Language, p.IncludeAdult)
		})
		remote = client
	}

	cache := metadata.NewCache(cfg.Cache, log.Logger)
	if c, ok := cache.(interface{ Close() }); ok {
		defer c.Close()
	}

	store := favorites.NewStore(db.Conn(), log.Logger)
	repo := repository.New(remote, store, cache, cfg.Cache.TTL, log.Logger)
	prefs.OnChange(func(preferences.BrowsePreferences) {
		repo.InvalidateGenres(context.Background())
	})
	images := metadata.NewImageLoader(cfg.Artwork.Dir, repo.ImageURL, time.Duration(cfg.TMDB.Timeout)*time.Second, log.Logger)

	exec := dispatch.NewExecutor(0, log.Logger)
	exec.Start()
	defer exec.Close()

	hub := websocket.NewHub(log.Logger)
	go hub.Run(ctx)

	category, err := media.ParseCategory(cfg.Recommendations.Category)
	if err != nil {
		log.Warn().Err(err).Str("category", cfg.Recommendations.Category).Msg("invalid recommendations category, using default")
		category = media.CategoryMoviePopular
	}
	recs := recommendation.NewService(repo, images, category, cfg.Recommendations.Limit, log.Logger)
	recs.AddPublisher(recommendation.NewHubPublisher(hub))
	if cfg.Recommendations.WebhookURL != "" {
		webhook := recommendation.NewWebhookPublisher(cfg.Recommendations.WebhookURL, nil, nil, log.Logger).
			WithSecret(cfg.Recommendations.WebhookSecret)
		recs.AddPublisher(webhook)
	}

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := tasks.RegisterRecommendationsTask(sched, recs, &cfg.Recommendations); err != nil {
		log.Fatal().Err(err).Msg("failed to register recommendations task")
	}
	hub.SetRefreshHandler(func() error {
		if err := sched.RunNow(tasks.RecommendationsTaskID); err != nil && !errors.Is(err, scheduler.ErrTaskNotFound) {
			return err
		}
		return nil
	})
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown error")
		}
	}()

	server := api.NewServer(cfg, api.Deps{
		Catalog:         repo,
		Executor:        exec,
		Hub:             hub,
		Preferences:     prefs,
		Recommendations: recs,
		Scheduler:       sched,
	}, log.Logger)

	go func() {
		if err := server.Start(ctx, cfg.Server.Address()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
