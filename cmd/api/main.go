package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/davideparisimodena/careconnect/internal/config"
	"github.com/davideparisimodena/careconnect/internal/handler"
	authHandler "github.com/davideparisimodena/careconnect/internal/handler/auth"
	chatHandler "github.com/davideparisimodena/careconnect/internal/handler/chat"
	directoryHandler "github.com/davideparisimodena/careconnect/internal/handler/directory"
	profileHandler "github.com/davideparisimodena/careconnect/internal/handler/profile"
	requestHandler "github.com/davideparisimodena/careconnect/internal/handler/request"
	"github.com/davideparisimodena/careconnect/internal/middleware"
	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/notification"
	"github.com/davideparisimodena/careconnect/internal/repository/postgres"
	"github.com/davideparisimodena/careconnect/internal/router"
	conversationService "github.com/davideparisimodena/careconnect/internal/service/conversation"
	directoryService "github.com/davideparisimodena/careconnect/internal/service/directory"
	eventService "github.com/davideparisimodena/careconnect/internal/service/event"
	identityService "github.com/davideparisimodena/careconnect/internal/service/identity"
	ledgerService "github.com/davideparisimodena/careconnect/internal/service/ledger"
	taxonomyService "github.com/davideparisimodena/careconnect/internal/service/taxonomy"
	"github.com/davideparisimodena/careconnect/pkg/auth"
	"github.com/davideparisimodena/careconnect/pkg/logger"
	"github.com/davideparisimodena/careconnect/pkg/matcher"
	"github.com/davideparisimodena/careconnect/pkg/metrics"
	"github.com/davideparisimodena/careconnect/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	requestRepo := postgres.NewRequestRepository(base)
	messageRepo := postgres.NewMessageRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	appMetrics := metrics.NewMetrics("careconnect")

	// Optional semantic matcher capability
	var categoryMatcher *matcher.Matcher
	if cfg.Matcher.Enabled {
		encoder := matcher.NewHTTPEncoder(matcher.HTTPEncoderConfig{
			URL:     cfg.Matcher.URL,
			Model:   cfg.Matcher.Model,
			APIKey:  cfg.Matcher.APIKey,
			Timeout: cfg.Matcher.Timeout,
		})
		categoryMatcher = matcher.New(encoder, categoryNames())
		appLogger.Info("semantic matcher enabled", "model", cfg.Matcher.Model)
	} else {
		appLogger.Info("semantic matcher disabled, category suggestion unavailable")
	}

	// Services
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        cfg.JWT.Expiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})
	notifier := notification.NewEmailNotifier(cfg.SMTP)
	eventSvc := eventService.NewService(outboxRepo)
	identitySvc := identityService.NewService(userRepo, hasher)
	taxonomySvc := taxonomyService.NewService(categoryMatcher, appMetrics)
	ledgerSvc := ledgerService.NewService(requestRepo, userRepo, eventSvc, notifier, appLogger, appMetrics)
	conversationSvc := conversationService.NewService(messageRepo, requestRepo, eventSvc, appLogger, appMetrics)
	directorySvc := directoryService.NewService(userRepo, taxonomySvc, cfg.Directory.CacheTTL)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(identitySvc, jwtSvc)
	profileH := profileHandler.NewHandler(identitySvc)
	requestH := requestHandler.NewHandler(ledgerSvc, identitySvc)
	chatH := chatHandler.NewHandler(conversationSvc)
	directoryH := directoryHandler.NewHandler(directorySvc, taxonomySvc)

	r := router.NewRouter(authMiddleware, authH, profileH, requestH, chatH, directoryH, h, router.Config{
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
		CORS:           middleware.CORSConfig{AllowOrigins: cfg.CORS.AllowOrigins},
		RequestTimeout: cfg.Server.RequestTimeout,
		MetricsPrefix:  "careconnect",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func categoryNames() []string {
	names := make([]string, 0, len(model.InterventionMapping))
	for _, entry := range model.InterventionMapping {
		names = append(names, entry.Category)
	}
	return names
}
