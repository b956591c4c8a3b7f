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

	"golang-stock-advisor/internal/advisor/delivery/consumer"
	delivery "golang-stock-advisor/internal/advisor/delivery/http"
	_ "golang-stock-advisor/internal/advisor/docs"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/executor"
	"golang-stock-advisor/internal/advisor/strategy"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API and the task stream consumer",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(configPath)
	if err != nil {
		log.Fatalf("Failed to start advisor: %v", err)
	}
	defer a.Close()

	if err := a.ensureStream(ctx); err != nil {
		a.log.Fatal("Failed to prepare task stream", logger.ErrorField(err))
	}

	strategies := []strategy.TaskStrategy{
		strategy.NewGenerateDigestStrategy(a.log, a.digestService, a.verificationService, a.notify),
		strategy.NewRunVerificationStrategy(a.log, a.verificationService, a.notify),
		strategy.NewDrawdownMonitorStrategy(a.log, a.cfg.Guiderails.Tickers, a.signalService, a.signalRepo, a.notify),
	}
	executorSvc := executor.NewExecutorService(a.cfg.Executor, a.redis.Client, a.historyRepo, a.log, strategies)
	redisConsumer := consumer.NewRedisConsumer(a.cfg.Executor, executorSvc, a.log)
	redisConsumer.Start(ctx)

	e := newServer(a)
	go func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.log.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.log.Info("Shutting down advisor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	redisConsumer.Stop()
	a.log.Info("Advisor exiting")
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	apiV1 := e.Group("/api/v1")
	delivery.NewDigestHandler(a.digestService, a.log).RegisterRoutes(apiV1.Group("/digests"))
	delivery.NewSignalHandler(a.signalService, a.log).RegisterRoutes(apiV1.Group("/signals"))
	delivery.NewLedgerHandler(a.ledgerService, a.log).RegisterRoutes(apiV1.Group("/ledgers"))
	delivery.NewVerificationHandler(a.verificationService, a.log).RegisterRoutes(apiV1.Group("/verification"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Version: a.cfg.App.Version})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)
	return e
}
