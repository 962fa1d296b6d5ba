// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mealkit-service/internal/config"
	"mealkit-service/internal/db"
	authHandler "mealkit-service/internal/handlers/auth"
	mealplanHandler "mealkit-service/internal/handlers/mealplan"
	subscriptionHandler "mealkit-service/internal/handlers/subscription"
	testimonialHandler "mealkit-service/internal/handlers/testimonial"
	"mealkit-service/internal/middleware"
	"mealkit-service/internal/migrations"
	"mealkit-service/internal/pkg/jwt"
	"mealkit-service/internal/pkg/session"
	"mealkit-service/internal/repository/postgres"
	authUsecase "mealkit-service/internal/service/auth"
	mealplanUsecase "mealkit-service/internal/service/mealplan"
	subscriptionUsecase "mealkit-service/internal/service/subscription"
	testimonialUsecase "mealkit-service/internal/service/testimonial"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	// guards the fields below; Shutdown may run while Start is still wiring
	mu          sync.Mutex
	httpServer  *http.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}
}

// Start wires every dependency and blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Migrations -----
	if s.cfg.RunMigrations {
		if err := migrations.Up(s.cfg.DatabaseURL, s.logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, db.PostgresConfig{
		URL:      s.cfg.DatabaseURL,
		MaxConns: s.cfg.DBMaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.mu.Lock()
	s.pool = pool
	s.mu.Unlock()
	s.logger.Info("connected to PostgreSQL")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
		Address:  s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.mu.Lock()
	s.redisClient = redisClient
	s.mu.Unlock()
	s.logger.Info("connected to Redis", zap.String("addr", s.cfg.RedisAddr))

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(dbWrapper)
	mealPlanRepo := postgres.NewMealPlanRepository(pool)
	testimonialRepo := postgres.NewTestimonialRepository(pool)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(userRepo, jwtManager, sessionManager, rateLimiter, s.logger)
	subscriptionService := subscriptionUsecase.NewSubscriptionService(subscriptionRepo, s.cfg.Timezone, s.logger)
	mealPlanService := mealplanUsecase.NewMealPlanService(mealPlanRepo, s.logger)
	testimonialService := testimonialUsecase.NewTestimonialService(testimonialRepo, s.logger)

	// ----- Initialize Admin -----
	adminCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := authService.EnsureAdminExists(adminCtx, s.cfg.AdminEmail, s.cfg.AdminPassword, s.cfg.AdminName); err != nil {
		// Don't fail startup, just log the error
		s.logger.Error("failed to initialize admin", zap.Error(err))
	}
	cancel()

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(s.cfg.CORSAllowedOrigins),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:         authHandler.NewAuthHandler(authService, s.logger),
		SubscriptionHandler: subscriptionHandler.NewSubscriptionHandler(subscriptionService),
		MealPlanHandler:     mealplanHandler.NewMealPlanHandler(mealPlanService),
		TestimonialHandler:  testimonialHandler.NewTestimonialHandler(testimonialService),
		AuthMiddleware:      middleware.NewAuthMiddleware(authService),
	}
	if err := SetupRouter(s.engine, handlers); err != nil {
		return err
	}

	// ----- Start HTTP -----
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr), zap.String("env", s.cfg.AppEnv))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests then closes PostgreSQL and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.redisClient != nil {
		if cerr := s.redisClient.Close(); cerr != nil {
			s.logger.Warn("failed to close Redis client", zap.Error(cerr))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
