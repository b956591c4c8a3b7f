package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-advisor/internal/scheduler/config"
	delivery "golang-stock-advisor/internal/scheduler/delivery/http"
	_ "golang-stock-advisor/internal/scheduler/docs"
	"golang-stock-advisor/internal/scheduler/repository"
	"golang-stock-advisor/internal/scheduler/service"
	"golang-stock-advisor/pkg/lock"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/postgres"
	"golang-stock-advisor/pkg/redis"
	"golang-stock-advisor/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

const scheduleLockPrefix = "lock:schedule:"

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduling service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Scheduling Service", logger.StringField("name", cfg.App.Name))

	loc, err := utils.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		appLogger.Fatal("Invalid scheduler timezone", logger.ErrorField(err))
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	historyRepo := repository.NewTaskExecutionHistoryRepository(db.DB)

	schedulerSvc, err := service.NewSchedulerService(
		cfg.Scheduler,
		loc,
		historyRepo,
		service.NewStreamPublisher(redisClient.Client, cfg.Redis.StreamMaxLen),
		lock.NewRedisLocker(redisClient.Client, scheduleLockPrefix),
		appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
	}
	historySvc := service.NewExecutionHistoryService(historyRepo, appLogger, cfg.Scheduler.HistoryLimit)

	go schedulerSvc.Start(ctx)

	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")
	schedulesGroup := apiV1.Group("/schedules")
	delivery.NewScheduleHandler(schedulerSvc, appLogger).RegisterRoutes(schedulesGroup)

	historyHandler := delivery.NewExecutionHistoryHandler(historySvc, appLogger)
	historyHandler.RegisterRoutes(apiV1.Group("/executions"))
	historyHandler.RegisterScheduleRoutes(schedulesGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Advisor Scheduler API
// @version 1.0
// @description Cron schedules that publish advisor tasks, and their execution history.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "scheduling-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-scheduler.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing scheduling-service CLI: %s\n", err)
		os.Exit(1)
	}
}
