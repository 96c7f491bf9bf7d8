package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"ladp/internal/apiserver/config"
	"ladp/internal/apiserver/consumer"
	"ladp/internal/apiserver/domains/modules/mddetect"
	"ladp/internal/apiserver/domains/modules/mdjob"
	"ladp/internal/apiserver/domains/repo/rpjob"
	"ladp/internal/apiserver/domains/services/svcallback"
	"ladp/internal/apiserver/domains/services/svjob"
	"ladp/internal/apiserver/infra/mq/lmstfy"
	"ladp/internal/apiserver/infra/persistence/redis"
	"ladp/internal/apiserver/pkg/logger"
	"ladp/internal/apiserver/server/handlers/detection"
	"ladp/internal/apiserver/server/routers"
)

// App 应用组件容器
type App struct {
	Engine           *gin.Engine
	CallbackConsumer *consumer.CallbackConsumer
	Logger           logger.Logger
}

// InitializeApp 组装应用依赖（手工装配）
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	// 日志
	appLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}

	// 数据库
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("init database failed: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB failed: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis
	redisClient, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("init redis failed: %w", err)
	}

	// Lmstfy
	lmstfyClient := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)

	// Repository 层
	jobRepo := rpjob.NewJobRepository(db)

	// Module 层
	jobModule := mdjob.NewJobModule(jobRepo)
	detectModule := mddetect.NewDetectModule(lmstfyClient, redisClient, cfg.Lmstfy.Queue)

	// Service 层
	jobService := svjob.NewJobService(jobModule, detectModule, appLogger)
	callbackService := svcallback.NewCallbackService(jobRepo, redisClient, appLogger)

	// Consumer
	callbackConsumer := consumer.NewCallbackConsumer(
		lmstfyClient,
		callbackService,
		&consumer.Config{
			QueueName:    cfg.Lmstfy.CallbackQueue,
			Timeout:      3,
			TTR:          30,
			PollInterval: 100 * time.Millisecond,
		},
		appLogger,
	)

	// HTTP 层
	detectionHandler := detection.NewDetectionHandler(
		jobService,
		cfg.Detect.DefaultSpanDays,
		cfg.Detect.DefaultScoreDays,
		cfg.Detect.MaxWaitSeconds,
	)
	engine := routers.SetupRoutes(detectionHandler, appLogger)

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		_ = appLogger.Sync()
	}

	return &App{
		Engine:           engine,
		CallbackConsumer: callbackConsumer,
		Logger:           appLogger,
	}, cleanup, nil
}
