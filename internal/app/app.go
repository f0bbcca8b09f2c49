package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/chat"
	"github.com/neuralfit/backend/internal/config"
	"github.com/neuralfit/backend/internal/handler"
	"github.com/neuralfit/backend/internal/inference"
	"github.com/neuralfit/backend/internal/repository"
	"github.com/neuralfit/backend/internal/service"
	"github.com/neuralfit/backend/internal/utils"
	"github.com/neuralfit/backend/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
	store  *chat.Store
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry.Duration,
	)

	blacklist := service.NewAccessTokenBlacklist(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		jwtManager,
		blacklist,
		infra.Instruments(),
		infra.Logger(),
		cfg.Security.BCryptCost,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)
	userService := service.NewUserService(repos.User)

	store := chat.NewStore(
		cfg.Conversation.TTL.Duration,
		cfg.Conversation.SweepInterval.Duration,
		infra.Instruments(),
		infra.Logger(),
	)
	aiClient := inference.NewClient(cfg.AI)
	orchestrator := chat.NewOrchestrator(store, aiClient, infra.Instruments(), infra.Logger(), cfg.AI.SystemPrompt)

	exposeDetails := cfg.Env != "production"
	cookies := handler.NewCookieWriter(cfg)

	authHandler := handler.NewAuthHandler(authService, cookies, infra.Logger(), exposeDetails)
	userHandler := handler.NewUserHandler(userService, cookies, infra.Logger(), exposeDetails)
	chatHandler := handler.NewChatHandler(orchestrator, store, infra.Logger(), exposeDetails)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS))

	setupRoutes(router, cfg, authHandler, userHandler, chatHandler, authService, rateLimiter, healthChecker, infra)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
		store:  store,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	infra Infrastructure,
) {
	router.GET("/metrics", observability.PrometheusHandler(infra.MetricsHandler()))
	router.GET("/health", healthChecker.Handler)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "NeuralFit API is running"})
	})

	authRequired := handler.AuthMiddleware(authService, infra.Logger())
	loginLimit := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", loginLimit, authHandler.Register)
			auth.POST("/login", loginLimit, authHandler.Login)
			auth.POST("/refresh-token", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		users := api.Group("/users")
		{
			users.GET("/public/:username", userHandler.GetPublicProfile)
			users.GET("/profile", authRequired, userHandler.GetProfile)
			users.PUT("/profile", authRequired, userHandler.UpdateProfile)
			users.DELETE("/me", authRequired, userHandler.DeleteAccount)
			users.GET("", authRequired, handler.RequireRoles("admin"), userHandler.ListUsers)
			users.GET("/:id", authRequired, userHandler.GetUserByID)
		}

		chatGroup := api.Group("/chat")
		{
			chatGroup.GET("/status", chatHandler.Status)
			chatGroup.POST("/chat", authRequired, chatHandler.Chat)
			chatGroup.POST("", authRequired, chatHandler.Chat)
			chatGroup.GET("/conversations", authRequired, chatHandler.ListConversations)
			chatGroup.POST("/conversations", authRequired, chatHandler.CreateConversation)
			chatGroup.GET("/conversations/:id", authRequired, chatHandler.GetConversation)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	go a.store.Run(ctx)

	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
