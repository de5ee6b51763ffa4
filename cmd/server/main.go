package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outreach-records/internal/config"
	apphttp "outreach-records/internal/http"
	"outreach-records/internal/repository/sqlite"
	"outreach-records/internal/service"
	"outreach-records/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Fatalf("parse log level: %v", err)
	}
	logger.SetLevel(level)

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	studentRepo := sqlite.NewStudentRepository(db)
	volunteerRepo := sqlite.NewVolunteerRepository(db)
	donorRepo := sqlite.NewDonorRepository(db)

	for name, initRepo := range map[string]func(context.Context) error{
		"user":      userRepo.Init,
		"student":   studentRepo.Init,
		"volunteer": volunteerRepo.Init,
		"donor":     donorRepo.Init,
	} {
		if err := initRepo(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	userService := service.NewUserService(userRepo)
	recordService := service.NewRecordService(studentRepo, volunteerRepo, donorRepo)

	var exportService service.ExportService
	if cfg.Storage.Bucket != "" {
		store, err := storage.NewS3ServiceFromConfig(ctx, storage.ClientOptions{
			Region:   cfg.Storage.Region,
			Endpoint: cfg.Storage.Endpoint,
			Profile:  cfg.AWS.Profile,
		})
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		logger.Infof("exporting to s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
		exportService = service.NewExportService(store, userRepo, studentRepo, volunteerRepo, donorRepo, service.ExportOptions{
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.KeyPrefix,
			Logger:    logger.WithField("component", "export"),
		})
	} else {
		logger.Info("storage bucket not configured, exports disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, recordService, exportService, apphttp.Options{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		Logger:    logger.WithField("component", "http"),
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
