package main

import (
	"context"
	"log"

	"github.com/jaganov/theblogs-app/internal/config"
	"github.com/jaganov/theblogs-app/internal/db"
	"github.com/jaganov/theblogs-app/internal/handler"
	"github.com/jaganov/theblogs-app/internal/router"
	"github.com/jaganov/theblogs-app/internal/search"
	"github.com/jaganov/theblogs-app/internal/tasks"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env 仅在本地开发时存在，缺失不算错误
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	index, err := search.NewBleveIndex(search.Options{
		Path:          cfg.SearchIndexPath,
		TitleWeight:   cfg.SearchTitleWeight,
		ExcerptWeight: cfg.SearchExcerptWeight,
		Conjunctive:   cfg.SearchConjunctive,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("failed to initialize search index", zap.Error(err))
	}
	defer index.Close()

	api := handler.NewAPI(gdb, index, cfg, logger)

	// Seed the index from the store, then keep repairing it on a schedule.
	reindexer, err := tasks.NewReindexer(api.Posts(), index, cfg.ReindexSpec, logger)
	if err != nil {
		logger.Fatal("failed to schedule search reindex", zap.Error(err))
	}
	if err := reindexer.Run(context.Background()); err != nil {
		logger.Fatal("initial search index build failed", zap.Error(err))
	}
	reindexer.Start()
	defer reindexer.Stop()

	// 设置并运行 Gin 服务器
	r := router.Setup(api, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}
