package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/config"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/handlers"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/logging"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/middleware"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/server"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/services"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

func main() {
	os.Exit(runMain())
}

// runMain returns the process exit code so deferred flushes run before exiting.
func runMain() int {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		log.Printf("logger: %v", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	if err := client.Ping(connectCtx, nil); err != nil {
		return err
	}
	db := client.Database(cfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	if err := services.EnsureIndexes(connectCtx, db); err != nil {
		return err
	}

	// --- Optional Redis for the OTP throttle ---
	var cache *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		cache = redis.NewClient(redisOpts)
		defer cache.Close()
		if err := cache.Ping(connectCtx).Err(); err != nil {
			logger.Warn("redis unreachable, OTP throttle will fail open", zap.Error(err))
		}
	} else {
		logger.Info("REDIS_URL not set, OTP throttle disabled")
	}

	// --- Initialize Services ---
	var sender services.PushSender
	if cfg.FCMProjectID != "" {
		fcmSender, err := services.NewFCMSender(ctx, cfg.FCMProjectID, fcmOptions(cfg.FCMCredentialsFile)...)
		if err != nil {
			return err
		}
		sender = fcmSender
	} else {
		logger.Info("FCM_PROJECT_ID not set, every OTP falls back to SMS")
	}

	reporter := services.NewSentryService(cfg.SentryDSN, cfg.SentryEnvironment, logger)
	defer reporter.Flush(2 * time.Second)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	clients := services.NewMongoClientStore(db)

	h := handlers.NewHandler(
		clients,
		services.NewMongoOtpStore(db),
		services.NewMongoIdentityProvider(db),
		services.NewNotificationService(sender),
		tokens,
		reporter,
		logger,
		handlers.Options{EmailDomain: cfg.AuthEmailDomain, OtpTTL: cfg.OTPTTL},
	)

	readiness := map[string]handlers.Pinger{"mongo": clients}
	if cache != nil {
		readiness["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return cache.Ping(ctx).Err()
		})
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.RouterDeps{
		Handler: h,
		Tokens:  tokens,
		Cache:   cache,
		OTPLimits: middleware.OTPLimits{
			Cooldown:  cfg.OTPCooldown,
			Window:    cfg.OTPWindow,
			MaxPerWin: cfg.OTPMaxPerWindow,
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Readiness:      readiness,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// fcmOptions uses a service account key file when given, else application default credentials.
func fcmOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithAuthCredentialsFile(option.ServiceAccount, credentialsFile)}
}
