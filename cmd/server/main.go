package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"viewtube/internal/config"
	apphttp "viewtube/internal/http"
	"viewtube/internal/media"
	"viewtube/internal/repository/sqlite"
	"viewtube/internal/service"
	"viewtube/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.AccessTokenSecret) == "" {
		logger.Fatalf("access token secret is required")
	}
	if strings.TrimSpace(cfg.Auth.RefreshTokenSecret) == "" {
		logger.Fatalf("refresh token secret is required")
	}
	if cfg.Auth.AccessTokenSecret == cfg.Auth.RefreshTokenSecret {
		logger.Fatalf("access and refresh token secrets must differ")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	videoRepo := sqlite.NewVideoRepository(db)
	subscriptionRepo := sqlite.NewSubscriptionRepository(db)
	tweetRepo := sqlite.NewTweetRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := videoRepo.Init(ctx); err != nil {
		logger.Fatalf("init video repository: %v", err)
	}
	if err := subscriptionRepo.Init(ctx); err != nil {
		logger.Fatalf("init subscription repository: %v", err)
	}
	if err := tweetRepo.Init(ctx); err != nil {
		logger.Fatalf("init tweet repository: %v", err)
	}
	if err := commentRepo.Init(ctx); err != nil {
		logger.Fatalf("init comment repository: %v", err)
	}

	authService := service.NewAuthService(userRepo, service.TokenConfig{
		Issuer:        "viewtube",
		AccessSecret:  cfg.Auth.AccessTokenSecret,
		RefreshSecret: cfg.Auth.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL(),
		RefreshTTL:    cfg.RefreshTokenTTL(),
	})
	userService := service.NewUserService(userRepo)
	tweetService := service.NewTweetService(tweetRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, videoRepo)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	uploader := media.NewUploader(storageSvc, media.Config{
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
		TempDir:   cfg.Upload.TempDir,
		MaxBytes:  cfg.Upload.MaxBytes,
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		authService,
		tweetService,
		commentService,
		uploader,
		logger,
		apphttp.Options{
			CORSOrigin:     cfg.Server.CORSOrigin,
			CookieSecure:   cfg.Auth.CookieSecure,
			AccessTTL:      cfg.AccessTokenTTL(),
			RefreshTTL:     cfg.RefreshTokenTTL(),
			LoginPerMinute: cfg.RateLimit.LoginPerMinute,
			LoginBurst:     cfg.RateLimit.Burst,
		},
	)
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

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Region, cfg.Storage.PublicBaseURL), nil
}
