package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ternarybob/arbor"

	"github.com/sujalbistaa/pickboard/internal/common"
	"github.com/sujalbistaa/pickboard/internal/config"
	"github.com/sujalbistaa/pickboard/internal/db"
	routes "github.com/sujalbistaa/pickboard/internal/http"
	"github.com/sujalbistaa/pickboard/internal/render"
	"github.com/sujalbistaa/pickboard/internal/store"
	"github.com/sujalbistaa/pickboard/internal/ws"
)

// configPaths allows the -config flag to be repeated.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	serverPort  = flag.Int("port", 0, "Server port (overrides config)")
	serverHost  = flag.String("host", "", "Server host (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be repeated, later files override earlier ones)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("pickboard server %s\n", config.GetFullVersion())
		os.Exit(0)
	}

	// .env must be loaded before the config reads the environment.
	dotenv := config.LoadDotEnv()

	if len(configFiles) == 0 {
		configFiles = config.DiscoverFiles()
	}
	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *serverPort, *serverHost)

	logger := common.NewLogger(cfg.Logging)
	common.PrintBanner(config.Version)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}
	logger.Info().
		Strs("config_files", configFiles).
		Strs("dotenv_files", dotenv).
		Str("version", config.Version).
		Msg("Configuration loaded")

	database, err := db.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
		os.Exit(1)
	}

	logger.Info().Msg("Running database migrations")
	if err := db.Migrate(database); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	reports := store.NewReports(database)
	votes := store.NewVotes(database)
	generator, err := render.NewGenerator(cfg.Page, reports, votes, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize page renderer")
		os.Exit(1)
	}
	if _, err := generator.Generate(ctx, time.Now()); err != nil {
		logger.Error().Err(err).Msg("Initial page generation failed")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	env := &routes.Env{
		Reports:   reports,
		Votes:     votes,
		Hub:       hub,
		Generator: generator,
		Logger:    logger,
	}
	routes.SetupRoutes(ctx, router, cfg, env, hub)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info().Msg("Server exiting")
}
