package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/Sihamkassim/Gursha-diaries-Backend/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/auth"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/cache"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/config"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/db"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/handler"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/logging"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/mail"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/metrics"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/repository"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/router"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/service"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/validation"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title Gursha Diaries API
// @version 1.0
// @description Recipe catalogue with email-verified accounts and session token authentication.
// @host localhost:8000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.SetDefault("gursha-api", version, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, mongoDB, err := db.NewMongo(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	users, err := userStore(ctx, cfg, mongoDB)
	if err != nil {
		log.Fatalf("user store: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "gursha:")
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, item cache disabled until it recovers", "error", err)
	}

	mailer, err := mail.New(cfg)
	if err != nil {
		log.Fatalf("mail transport: %v", err)
	}

	m := metrics.New()
	v := validation.New()
	tokens := auth.NewTokenService(cfg.TokenSecret)

	// Initialize services
	authService := service.NewAuthService(service.AuthDeps{
		Users:       users,
		Hasher:      auth.NewBcryptHasher(auth.BcryptCost, cfg.HashWorkers),
		Codes:       auth.NewCodeService(cfg.CodeSecret),
		Tokens:      tokens,
		Mailer:      mailer,
		Validator:   v,
		Metrics:     m,
		Logger:      logger,
		MailTimeout: cfg.MailTimeout,
	})
	itemService := service.NewItemService(repository.NewMongoItemRepository(mongoDB), cacheClient, logger)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Config:      cfg,
		Tokens:      tokens,
		Metrics:     m,
		Logger:      logger,
		Validator:   v,
		AuthHandler: handler.NewAuthHandler(authService, cfg.IsProduction()),
		ItemHandler: handler.NewItemHandler(itemService),
	})

	logger.Info("swagger documentation available", "url", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", "addr", addr, "env", cfg.Env, "user_store", cfg.UserStore)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
}

// userStore returns the credential store selected by USER_STORE.
func userStore(ctx context.Context, cfg *config.Config, mongoDB *mongo.Database) (repository.UserRepository, error) {
	switch cfg.UserStore {
	case "mysql":
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(gormDB); err != nil {
			return nil, err
		}
		return repository.NewUserRepository(gormDB), nil
	default:
		users := repository.NewMongoUserRepository(mongoDB)
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return users, nil
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
