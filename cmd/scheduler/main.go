package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ladp/internal/apiserver/pkg/logger"
	"ladp/internal/scheduler"
)

var (
	configPath = flag.String("config", "./config/scheduler.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := scheduler.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化 Logger
	appLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	// 3. 创建调度服务
	apiClient := scheduler.NewHTTPDetectionAPIClient(cfg.APIServer.BaseURL)
	service := scheduler.NewService(apiClient, cfg.Schedules, appLogger)

	if err := service.Start(); err != nil {
		log.Fatalf("Scheduler start failed: %v", err)
	}

	log.Println("Scheduler started. Press Ctrl+C to shutdown.")

	// 4. 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Received shutdown signal, stopping scheduler...")
	service.Stop()
	log.Println("Scheduler exited gracefully")
}
