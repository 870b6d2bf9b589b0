package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/expo-draw-service/config"
	"github.com/Eursukkul/expo-draw-service/internal/auth"
	"github.com/Eursukkul/expo-draw-service/internal/handler"
	"github.com/Eursukkul/expo-draw-service/internal/lottery"
	"github.com/Eursukkul/expo-draw-service/internal/middleware"
	"github.com/Eursukkul/expo-draw-service/internal/repository"
	"github.com/Eursukkul/expo-draw-service/internal/service"
	"github.com/Eursukkul/expo-draw-service/pkg/database"
	"github.com/Eursukkul/expo-draw-service/pkg/rabbitmq"
	"github.com/google/logger"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

const serviceName = "expo-draw-service"

func main() {
	defer logger.Init(serviceName, true, false, io.Discard).Close()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if cfg.LogVerbose {
		logger.SetLevel(1)
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}

	// Publishing is optional; a nil interface disables it.
	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		mq, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mq.Close()
		publisher = mq

		if cfg.EventLog {
			sub, err := rabbitmq.NewSubscriber(cfg.RabbitURL)
			if err != nil {
				logger.Fatalf("failed to subscribe to RabbitMQ: %v", err)
			}
			defer sub.Close()

			msgs, err := sub.Consume()
			if err != nil {
				logger.Fatalf("failed to start consuming: %v", err)
			}
			rabbitmq.StartEventLog(msgs)
		}
	} else {
		logger.Warning("RABBITMQ_URL is empty, domain events are disabled")
	}

	src, err := lottery.NewSource()
	if err != nil {
		logger.Fatalf("seed random source: %v", err)
	}

	// Repositories
	exhibitionRepo := repository.NewExhibitionRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	drawRepo := repository.NewDrawRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Services
	settingsSvc := service.NewSettingsService(settingsRepo, publisher)
	exhibitionSvc := service.NewExhibitionService(exhibitionRepo, checkinRepo, drawRepo, publisher)
	checkinSvc := service.NewCheckinService(checkinRepo, exhibitionRepo, publisher)
	drawSvc := service.NewDrawService(drawRepo, exhibitionRepo, settingsSvc, lottery.NewEngine(src), publisher)
	reportSvc := service.NewReportService(exhibitionRepo, checkinRepo, drawRepo)

	if err := service.Bootstrap(context.Background(), exhibitionSvc, settingsSvc, cfg.DefaultExhibitionName, cfg.DefaultWinRate); err != nil {
		logger.Fatalf("bootstrap: %v", err)
	}

	authenticator := auth.NewAuthenticator(auth.Options{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		Secret:       cfg.TokenSecret,
		TokenTTL:     cfg.TokenTTL,
	})
	if cfg.AdminUsername == "" {
		logger.Warning("ADMIN_USERNAME is empty, admin login is disabled")
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(middleware.RequestLogger())
	e.Use(echoMw.Recover())
	e.Use(echoMw.BodyLimit("1M"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	})

	handler.NewPublicHandler(exhibitionSvc, checkinSvc, drawSvc, settingsSvc).RegisterRoutes(e)
	handler.NewAuthHandler(authenticator, cfg.SessionTTL).RegisterRoutes(e)
	handler.NewQRHandler(cfg.PublicBaseURL).RegisterRoutes(e)
	handler.NewAdminHandler(exhibitionSvc, checkinSvc, drawSvc, settingsSvc, reportSvc).
		RegisterRoutes(e, middleware.RequireAdmin(authenticator))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("%s starting on :%s (db=%s)", serviceName, cfg.ServerPort, cfg.DBDriver)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return database.NewSQLiteDB(cfg.SQLitePath)
	}
	return database.NewPostgresDB(cfg.DSN())
}
