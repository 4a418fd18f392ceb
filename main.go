package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuelmate-api/auth"
	"fuelmate-api/config"
	"fuelmate-api/handlers"
	"fuelmate-api/logger"
	"fuelmate-api/metrics"
	"fuelmate-api/routes"
	"fuelmate-api/services"
	"fuelmate-api/storage"
	"fuelmate-api/store"
	"fuelmate-api/store/mongostore"
	"fuelmate-api/store/sqlstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Must(os.Getenv("APP_ENV")).Fatal("config", zap.Error(err))
	}

	log := logger.Must(cfg.App.Env)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal("store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("store close", zap.Error(err))
		}
	}()
	log.Info("store ready", zap.String("driver", cfg.Database.Driver))

	pictures, err := storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		log.Fatal("upload storage", zap.Error(err))
	}

	// Redis is optional; without it the API runs without rate limiting
	rdb, err := config.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	metrics.Init()

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	authSvc := services.NewAuthService(st.Users(), tokens, cfg.Drivers.RequireApproval, log)
	orderSvc := services.NewOrderService(st.Orders(), cfg.Drivers.RequireApproval, log)
	profileSvc := services.NewProfileService(st.Users(), pictures, cfg.Storage.MaxUploadBytes, log)
	adminSvc := services.NewAdminService(st.Users(), st.Orders(), log)

	if cfg.Admin.SeedEmail != "" && cfg.Admin.SeedPassword != "" {
		created, err := authSvc.EnsureAdmin(ctx, cfg.Admin.SeedName, cfg.Admin.SeedEmail, cfg.Admin.SeedPassword)
		if err != nil {
			log.Fatal("seed admin", zap.Error(err))
		}
		if created {
			log.Info("admin account created", zap.String("email", cfg.Admin.SeedEmail))
		}
	}

	h := handlers.New(authSvc, orderSvc, profileSvc, adminSvc, st, log, handlers.Options{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Development:    cfg.App.IsDevelopment(),
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})
	r := routes.NewRouter(h, authSvc, log, routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		UploadDir:      cfg.Storage.UploadDir,
		Redis:          rdb,
		RateLimitRPS:   cfg.Redis.RateLimitRPS,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.Driver == "mongo" {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return mongostore.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	}
	db, err := config.OpenGorm(cfg)
	if err != nil {
		return nil, err
	}
	return sqlstore.New(db), nil
}
