package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/smoothbar/studio-backend/internal/api/router"
	appconfig "github.com/smoothbar/studio-backend/internal/config"
	"github.com/smoothbar/studio-backend/internal/http/handlers"
	"github.com/smoothbar/studio-backend/internal/observability/metrics"
	"github.com/smoothbar/studio-backend/internal/schedule"
	"github.com/smoothbar/studio-backend/internal/square"
	"github.com/smoothbar/studio-backend/internal/tokens"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting studio backend",
		"env", cfg.Env,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
	)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid studio timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("REDIS_ADDR not set, running without dataset cache or oauth state store")
	}

	store, err := tokens.NewStore(cfg.TokensFile, tokens.Options{
		AccessToken:  cfg.SquareAccessToken,
		RefreshToken: cfg.SquareRefreshToken,
		MerchantID:   cfg.SquareMerchantID,
	}, logger)
	if err != nil {
		logger.Error("failed to load token store", "error", err)
		os.Exit(1)
	}

	client := square.NewClient(cfg.SquareBaseURL, cfg.SquareVersion, store, logger)
	oauthService := square.NewOAuthService(square.OAuthConfig{
		ClientID:     cfg.SquareAppID,
		ClientSecret: cfg.SquareAppSecret,
		RedirectURI:  cfg.Domain + "/callback",
		BaseURL:      cfg.SquareBaseURL,
		Version:      cfg.SquareVersion,
	}, store, logger)

	var oauthHandler *square.OAuthHandler
	if cache != nil {
		oauthHandler = square.NewOAuthHandler(oauthService, cache, logger)
	} else {
		logger.Warn("square connect flow disabled without redis")
	}

	scheduleMetrics := metrics.NewScheduleMetrics(nil)
	scheduleService := schedule.NewService(client, cache, loc, cfg.HorizonDays, cfg.DatasetTTL, scheduleMetrics, logger)

	hours := schedule.DefaultWeeklyHours()
	if raw := os.Getenv("WEEKLY_HOURS"); raw != "" {
		parsed, err := schedule.ParseWeeklyHours([]byte(raw))
		if err != nil {
			logger.Error("invalid WEEKLY_HOURS", "error", err)
			os.Exit(1)
		}
		hours = parsed
	}
	poller := schedule.NewStatusPoller(hours, loc, cfg.StatusPeriod, logger)

	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go poller.Run(pollCtx)

	r := router.New(&router.Config{
		Logger:          logger,
		Pages:           handlers.NewPagesHandler(cfg.PagesDir, logger),
		Services:        handlers.NewServicesHandler(client, logger),
		Availability:    handlers.NewAvailabilityHandler(client, loc, cfg.HorizonDays, logger),
		Calendar:        handlers.NewCalendarHandler(scheduleService, loc, logger),
		Status:          handlers.NewStatusHandler(poller),
		Health:          handlers.NewHealthHandler(),
		SquareOAuth:     oauthHandler,
		AssetsDir:       cfg.AssetsDir,
		AdminAuthSecret: cfg.AdminSecret,
		MetricsHandler:  promhttp.Handler(),
		APIRateLimit:    cfg.APIRateLimit,
		APIRateWindow:   cfg.APIRateWindow,
		AuthRateLimit:   cfg.AuthRateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
