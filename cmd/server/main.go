package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketduel/duel-server-go/internal/auth"
	"github.com/pocketduel/duel-server-go/internal/cards"
	"github.com/pocketduel/duel-server-go/internal/config"
	"github.com/pocketduel/duel-server-go/internal/game"
	"github.com/pocketduel/duel-server-go/internal/notify"
	"github.com/pocketduel/duel-server-go/internal/repository"
	"github.com/pocketduel/duel-server-go/internal/server"
	"github.com/pocketduel/duel-server-go/internal/user"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	stats := db.Stats()
	logger.Info("database connection pool initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("idle_conns", stats.IdleConns()),
	)

	matchRepo := repository.NewMatchRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cardRepo := repository.NewCardRepository(db)
	userRepo := repository.NewUserRepository(db)

	catalog, err := cardRepo.LoadCatalog(ctx)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	if catalog.Len() == 0 {
		logger.Warn("cards table is empty, falling back to the built-in starter set")
		catalog = cards.MustStarterCatalog()
	}
	logger.Info("card catalog loaded", zap.Int("cards", catalog.Len()))

	userMgr := user.NewManager(userRepo, logger)
	tokenStore := auth.NewTokenStore(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	logger.Info("auth token store initialized", zap.Duration("token_ttl", cfg.Auth.TokenTTL))

	hub := notify.NewHub(logger)
	engine := game.NewEngine(matchRepo, auditRepo, catalog, hub, logger)
	logger.Info("match engine initialized")

	srv := server.New(cfg.Server, engine, hub, tokenStore, userMgr, logger)

	go func() {
		if serveErr := srv.Start(); serveErr != nil {
			logger.Error("http server error", zap.Error(serveErr))
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("duel server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
