package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	pb "github.com/godilite/lhci-compare/api/v1"
	"github.com/godilite/lhci-compare/internal/config"
	"github.com/godilite/lhci-compare/internal/diff"
	handler "github.com/godilite/lhci-compare/internal/grpc"
	"github.com/godilite/lhci-compare/internal/repository"
	"github.com/godilite/lhci-compare/internal/service"
	"github.com/godilite/lhci-compare/pkg/cache"
	dbbuilder "github.com/godilite/lhci-compare/pkg/database"
	grpcsrv "github.com/godilite/lhci-compare/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	grpcServer *grpcsrv.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	buildRepo := repository.NewBuildRepository(dbPool)
	if err := buildRepo.Migrate(ctx); err != nil {
		_ = dbPool.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
	)
	if err != nil {
		_ = dbPool.Close()
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	comparisonService := service.NewComparisonService(buildRepo, diff.NewEngine(), logger, cfg.BaseBranch)

	grpcHandlers := handler.NewGRPCHandlers(comparisonService, cacheClient, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRequestIDs(true),
		grpcsrv.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)
	if err != nil {
		_ = cacheClient.Close()
		_ = dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(pb.BuildComparison_ServiceName, func(s *grpc.Server) {
		pb.RegisterBuildComparisonServer(s, grpcHandlers)
	})

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Warn("gRPC shutdown did not drain in time", zap.Error(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("shutdown completed")
	_ = a.logger.Sync()
	return nil
}
