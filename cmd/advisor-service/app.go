package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/lock"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/postgres"
	"golang-stock-advisor/pkg/redis"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/pkg/utils"
)

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *postgres.DB
	redis  *redis.Client
	loc    *time.Location
	notify telegram.Notifier

	stocksRepo     repository.StocksRepository
	digestRepo     repository.DigestRepository
	predictionRepo repository.PredictionRepository
	statsRepo      repository.VerificationStatsRepository
	ledgerRepo     repository.LedgerRepository
	signalRepo     repository.DrawdownSignalRepository
	historyRepo    repository.TaskExecutionHistoryRepository

	scoringService      service.ScoringService
	digestService       service.DigestService
	ledgerService       service.LedgerService
	signalService       service.SignalService
	verificationService service.VerificationService
}

func newApp(path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := utils.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, err
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
		return nil, err
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return nil, err
	}

	var notifier telegram.Notifier
	if cfg.Telegram.BotToken == "" {
		appLogger.Warn("Telegram bot token not set, notifications disabled")
		notifier = telegram.NewNopNotifier()
	} else {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
	}

	a := &app{
		cfg:    cfg,
		log:    appLogger,
		db:     db,
		redis:  redisClient,
		loc:    loc,
		notify: notifier,

		stocksRepo:     repository.NewStocksRepository(db.DB),
		digestRepo:     repository.NewDigestRepository(db.DB),
		predictionRepo: repository.NewPredictionRepository(db.DB),
		statsRepo:      repository.NewVerificationStatsRepository(db.DB),
		ledgerRepo:     repository.NewLedgerRepository(db.DB),
		signalRepo:     repository.NewDrawdownSignalRepository(db.DB),
		historyRepo:    repository.NewTaskExecutionHistoryRepository(db.DB),
	}

	marketData := repository.NewYahooFinanceRepository(cfg.YahooFinance, appLogger)
	news := repository.NewNewsFeedRepository(cfg.News, appLogger)
	locker := lock.NewRedisLocker(redisClient.Client, common.RedisKeyDigestLock)

	a.scoringService = service.NewScoringService(cfg.Scoring, appLogger, marketData, news)
	a.digestService = service.NewDigestService(cfg.Scoring, loc, appLogger, a.stocksRepo, a.digestRepo, a.scoringService, locker)
	a.ledgerService = service.NewLedgerService(cfg.Guiderails, appLogger, a.ledgerRepo, marketData)
	a.signalService = service.NewSignalService(cfg.Guiderails, appLogger, marketData, a.ledgerService)
	a.verificationService = service.NewVerificationService(cfg.Verification, loc, appLogger, marketData, a.predictionRepo, a.statsRepo)

	appLogger.Info("Advisor initialized",
		logger.StringField("name", cfg.App.Name),
		logger.StringField("env", cfg.App.Env),
		logger.StringField("timezone", loc.String()),
		logger.StringField("tracked", strings.Join(cfg.Guiderails.Tickers, ",")))
	return a, nil
}

// ensureStream creates the consumer group, and the stream with it, when missing.
func (a *app) ensureStream(ctx context.Context) error {
	err := a.redis.XGroupCreateMkStream(ctx, common.RedisStreamAdvisorTaskExecution, common.RedisStreamGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.redis.Close()
	_ = a.log.Sync()
}
