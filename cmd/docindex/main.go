package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/docindex/internal/ai"
	"github.com/xxxsen/docindex/internal/cluster"
	"github.com/xxxsen/docindex/internal/config"
	"github.com/xxxsen/docindex/internal/db"
	"github.com/xxxsen/docindex/internal/embedcache"
	"github.com/xxxsen/docindex/internal/handler"
	"github.com/xxxsen/docindex/internal/job"
	"github.com/xxxsen/docindex/internal/middleware"
	"github.com/xxxsen/docindex/internal/pkg/jwt"
	"github.com/xxxsen/docindex/internal/repo"
	"github.com/xxxsen/docindex/internal/schedule"
	"github.com/xxxsen/docindex/internal/service"
	"github.com/xxxsen/docindex/internal/source"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "docindex",
		Short: "document indexing and organization server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run docindex server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	var tokenUser string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "mint an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			if tokenUser == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			token, err := jwt.GenerateToken(tokenUser, []byte(cfg.JWTSecret), time.Duration(cfg.JWTTTLHours)*time.Hour)
			if err != nil {
				return fmt.Errorf("mint token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to mint the token for")
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("source", cfg.Source.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	docRepo := repo.NewDocumentRepo(database)
	chunkRepo := repo.NewChunkRepo(database)

	aiProvider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedder := embedcache.WrapLruCacheToEmbedder(
		ai.NewEmbedder(aiProvider, cfg.AI.Model),
		cfg.AI.CacheSize,
		time.Duration(cfg.AI.CacheTTLHours)*time.Hour,
	)

	src, err := source.New(ctx, cfg.Source.Type, cfg.Source.Data)
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}
	// Only sources that can create folders and shortcuts can apply plans.
	executor, _ := src.(source.PlanExecutor)

	locks := service.NewUserLocks()
	planner := service.NewSyncPlanner(src)
	indexService := service.NewIndexService(
		planner, src, embedder, chunkRepo, docRepo, locks,
		cfg.Sync.MaxChunkSize, cfg.Sync.Concurrency,
	)
	searchService := service.NewSearchService(chunkRepo, embedder, locks)
	organizeService := service.NewOrganizeService(
		chunkRepo, cluster.NewThemeAnalyzer(), executor, locks,
		cfg.Organize.MaxClusters, cfg.Organize.MinClusterSize, cfg.Organize.Seed,
	)

	deps := handler.RouterDeps{
		Sync:      handler.NewSyncHandler(indexService),
		Search:    handler.NewSearchHandler(searchService),
		Organize:  handler.NewOrganizeHandler(organizeService),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	var scheduler schedule.Scheduler
	if cfg.Sync.Cron != "" && len(cfg.Sync.Users) > 0 {
		scheduler = schedule.NewCronScheduler()
		syncJob := job.NewSyncJob(indexService, cfg.Sync.Users, cfg.Sync.Strategy, cfg.Sync.Limit)
		if err := scheduler.AddJob(syncJob, cfg.Sync.Cron); err != nil {
			return fmt.Errorf("schedule sync job: %w", err)
		}
		scheduler.Start(ctx)
	}

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	if scheduler != nil {
		scheduler.Stop()
	}
	return nil
}
