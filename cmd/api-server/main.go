package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medinex/telehealth-backend/internal/api"
	"github.com/medinex/telehealth-backend/internal/appointment"
	"github.com/medinex/telehealth-backend/internal/config"
	"github.com/medinex/telehealth-backend/internal/db"
	"github.com/medinex/telehealth-backend/internal/doctor"
	"github.com/medinex/telehealth-backend/internal/gateway"
	"github.com/medinex/telehealth-backend/internal/healthlog"
	"github.com/medinex/telehealth-backend/internal/otp"
	"github.com/medinex/telehealth-backend/internal/patient"
	"github.com/medinex/telehealth-backend/internal/presence"
	redisclient "github.com/medinex/telehealth-backend/internal/redis"
)

const version = "1.0.0"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	if cfg.Env == "dev" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	// Stores
	doctorRepo := doctor.NewPgRepository(pgPool)
	patientRepo := patient.NewPgRepository(pgPool)
	apptRepo := appointment.NewPgRepository(pgPool)
	healthRepo := healthlog.NewPgRepository(pgPool)
	directory := presence.NewPgDirectory(pgPool, cfg.StoreTimeout)

	// Services
	locker := redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)
	doctorSvc := doctor.NewService(doctorRepo, logger)
	patientSvc := patient.NewService(patientRepo, logger)
	apptSvc := appointment.NewService(apptRepo, doctorRepo, locker, logger)

	insight := healthlog.NewGeminiProvider(cfg.GeminiEndpoint, cfg.GeminiAPIKey, cfg.InsightTimeout)
	healthSvc := healthlog.NewService(healthRepo, insight, logger)

	otpSvc := otp.NewService(otp.NewRedisStore(rdb), otp.LogSender{Log: logger}, cfg.OTPTTL, logger)

	// Real-time connection subsystem
	hub := gateway.NewHub(cfg.WriteTimeout)
	cache := presence.NewIdentityCache(cfg.CacheTTL)
	lifecycle := presence.NewLifecycle(directory, cache, logger)
	presenceRouter := presence.NewRouter(cache, directory, hub, patientSvc, logger)
	wsHandler := api.NewWSHandler(hub, lifecycle, presenceRouter, logger)

	handler := api.NewRouter(api.RouterConfig{
		Appointments: apptSvc,
		Doctors:      doctorSvc,
		Patients:     patientSvc,
		HealthLogs:   healthSvc,
		OTP:          otpSvc,
		WS:           wsHandler,
		PgPool:       pgPool,
		Redis:        rdb,
		Logger:       logger,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	logger.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
