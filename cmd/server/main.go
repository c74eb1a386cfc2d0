package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"authservice/docs"
	"authservice/internal/auth"
	"authservice/internal/cache"
	"authservice/internal/config"
	"authservice/internal/db"
	"authservice/internal/handler"
	"authservice/internal/logger"
	"authservice/internal/metrics"
	"authservice/internal/repository"
	"authservice/internal/router"
	"authservice/internal/service"
)

// @title Auth Service API
// @version 1.0
// @description User registration, login, listing and session status with JWT bearer tokens.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	gormDB, err := db.NewMySQL(cfg.MySQLDSN, cfg.Env == "dev")
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, user lookups will hit the database", slog.Any("error", err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	authService := service.NewAuthService(userRepo, jwtService, log, m)
	userService := service.NewUserService(userRepo, cacheClient, cfg.UserCacheTTL, log)

	authHandler := handler.NewAuthHandler(authService)

	if cfg.SwaggerHost != "" {
		// SwaggerHost may already include scheme (http:// or https://)
		host := strings.TrimPrefix(cfg.SwaggerHost, "https://")
		docs.SwaggerInfo.Host = strings.TrimPrefix(host, "http://")
	}

	e := echo.New()
	router.Register(e, log, m, reg, jwtService, userService, authHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("listening", slog.String("addr", addr), slog.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
