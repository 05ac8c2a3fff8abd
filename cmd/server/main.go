package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"jaggery_back_end/internal/auth"
	"jaggery_back_end/internal/cache"
	"jaggery_back_end/internal/cart"
	"jaggery_back_end/internal/catalog"
	"jaggery_back_end/internal/checkout"
	"jaggery_back_end/internal/config"
	"jaggery_back_end/internal/database"
	"jaggery_back_end/internal/events"
	"jaggery_back_end/internal/logger"
	"jaggery_back_end/internal/middleware"
	"jaggery_back_end/internal/pricing"
	"jaggery_back_end/internal/routes"
	"jaggery_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// devJWTSecret signs tokens outside production when JWT_SECRET is unset.
const devJWTSecret = "jaggery-dev-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("❌ logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs carts, checkout sessions, rate limits and in-flight locks when reachable.
	var rdb *redis.Client
	if cfg.Stores.Cart == "redis" {
		rdb, err = database.NewRedis(ctx, cfg.Redis, zl)
		if err != nil {
			zl.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	var users auth.UserRepository = auth.NewMemoryRepository()
	if cfg.Stores.Users == "scylla" {
		session, err := database.NewScyllaSession(cfg.Scylla, zl)
		if err != nil {
			zl.Fatal("Failed to connect to ScyllaDB", zap.Error(err))
		}
		defer session.Close()
		users = auth.NewScyllaRepository(session)
	}

	var persister cart.Persister = cart.NewMemoryPersister()
	var sessions checkout.SessionStore = checkout.NewMemorySessionStore()
	var locker cache.Locker = cache.NewLocalLocker()
	var loginLimit, signupLimit *cache.AttemptLimiter
	if rdb != nil {
		persister = cart.NewRedisPersister(rdb)
		sessions = checkout.NewRedisSessionStore(rdb)
		locker = cache.NewRedisLocker(rdb)
		loginLimit = middleware.NewLoginLimiter(rdb)
		signupLimit = middleware.NewRegisterLimiter(rdb)
	} else {
		zl.Warn("⚠️ memory stores in use, state is lost on restart")
	}

	policy, err := pricing.FromName(cfg.Checkout.PricingPolicy)
	if err != nil {
		zl.Fatal("Invalid pricing policy", zap.Error(err))
	}

	var online checkout.PaymentGateway = checkout.NewSimulatedGateway(cfg.Checkout.SimulatedDelay)
	if cfg.Stripe.SecretKey != "" {
		online = checkout.NewStripeGateway(cfg.Stripe.SecretKey)
		zl.Info("✅ Stripe payments enabled")
	} else {
		zl.Warn("⚠️ STRIPE_SECRET_KEY not set, payments are simulated")
	}

	var mailer checkout.Mailer
	if cfg.SMTP.Enabled() {
		mailer = utils.NewMailer(utils.SMTPSettings{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, zl)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, 256, zl)
		kp.Start(ctx)
		defer func() {
			kp.Close()
			kp.WaitClosed()
		}()
		publisher = kp
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		zl.Warn("⚠️ JWT_SECRET not set, using the development secret")
		secret = devJWTSecret
	}
	tokens := utils.NewTokenIssuer(secret, cfg.JWT.TTL)
	products := catalog.Default()
	carts := cart.NewStore(persister, zl)

	svc := checkout.NewService(checkout.Deps{
		Sessions: sessions,
		Carts:    carts,
		Policy:   policy,
		Gateway:  checkout.Router{Online: online},
		Locker:   locker,
		Mailer:   mailer,
		Events:   publisher,
		Logger:   zl,
	}, checkout.Settings{
		PaymentTimeout: cfg.Checkout.PaymentTimeout,
		LockTTL:        cfg.Checkout.InFlightLockTTL,
		UPIPayeeVPA:    cfg.UPI.PayeeVPA,
		UPIPayeeName:   cfg.UPI.PayeeName,
	})

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Auth:            auth.NewService(users, tokens, zl),
		Tokens:          tokens,
		Carts:           carts,
		Catalog:         products,
		Policy:          policy,
		Checkout:        svc,
		Locker:          locker,
		LoginLimiter:    loginLimit,
		RegisterLimiter: signupLimit,
		CORSOrigins:     cfg.CORSOrigins,
		Logger:          zl,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zl.Info("🚀 Jaggery API listening", zap.String("address", srv.Addr), zap.String("pricing", policy.Name()))

	<-ctx.Done()
	zl.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited")
}
