package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/config"
	"github.com/ZacIsrael/dev-camper-api/database"
	"github.com/ZacIsrael/dev-camper-api/geocoder"
	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/mailer"
	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/routes"
	"github.com/ZacIsrael/dev-camper-api/services"
	"github.com/ZacIsrael/dev-camper-api/storage"
	"github.com/ZacIsrael/dev-camper-api/utils"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log.Init(cfg.IsProduction())
	defer log.Sync()
	if envErr != nil {
		log.Logger.Debug("no .env file loaded", zap.Error(envErr))
	}
	if err := cfg.Validate(); err != nil {
		log.Logger.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Logger.Fatal("mongo connection failed", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	db := client.Database(cfg.DatabaseName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Logger.Fatal("index creation failed", zap.Error(err))
	}
	cols := database.NewCollections(db)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := utils.SeedAdminUser(ctx, cols.Users.Raw(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Logger.Fatal("admin seeding failed", zap.Error(err))
		}
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		log.Logger.Warn("redis unavailable, geocode cache disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	photos, err := storage.New(ctx, cfg)
	if err != nil {
		log.Logger.Fatal("storage init failed", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer photos.Close()

	bg := services.NewBackground()
	aggregates := services.NewAggregates(cols.Bootcamps, cols.Courses, cols.Reviews)
	geo := geocoder.New(cfg.GeocoderProvider, cfg.GeocoderAPIKey, rdb)
	files := utils.NewImageValidator(cfg.MaxFileUpload)

	deps := routes.Deps{
		Auth:            services.NewAuthService(cols.Users, mailer.New(cfg), cfg.JWTSecret, cfg.JWTExpire),
		Bootcamps:       services.NewBootcampService(cols.Bootcamps, cols.Courses, cols.Reviews, geo, photos, files, bg),
		Courses:         services.NewCourseService(cols.Courses, cols.Bootcamps, aggregates, bg),
		Reviews:         services.NewReviewService(cols.Reviews, cols.Bootcamps, aggregates, bg),
		Users:           services.NewUserService(cols.Users),
		AllowedOrigins:  cfg.AllowedOrigins,
		CookieTTL:       cfg.JWTCookieExpire,
		SecureCookie:    cfg.IsProduction(),
		RequestLogging:  true,
		MaxMultipartMem: cfg.MaxFileUpload,
	}
	if cfg.RateLimitRequests > 0 {
		deps.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if local, ok := photos.(*storage.Local); ok {
		deps.UploadsDir = local.Dir()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Logger.Info("server running", zap.String("env", cfg.Environment), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Logger.Error("server shutdown", zap.Error(err))
	}
	bg.Wait()
}
