// Package http wires the echo server and the admission pipeline.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	handlers "github.com/ArifBabayev05/Backlify-v2-sub001/internal/adapter/handler/http"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/gateway/epoint"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/infrastructure/database"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/infrastructure/mail"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/infrastructure/oauth"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/token"
	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/usecase"
)

// publicRoutes and protectedRoutes drive the authentication classifier.
// Protected patterns win on overlap, so wildcards here stay safe.
var (
	publicRoutes = []string{
		"GET:/health",
		"POST:/auth/register",
		"POST:/auth/login",
		"POST:/auth/refresh",
		"POST:/auth/google-login",
		"POST:/password/reset",
		"POST:/password/reset/confirm",
		"GET:/api/payment/plans",
		"POST:/api/epoint/callback",
	}
	protectedRoutes = []string{
		"POST:/auth/logout",
		"GET:/api/usage",
		"/api/payment/*",
		"/api/admin/*",
		"/api/*",
	}
)

// Server is the HTTP front of the control plane.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	echo   *echo.Echo

	repos  *database.Repositories
	tokens *token.Service
	audit  *usecase.AuditService
	usage  *usecase.UsageService
}

// NewServer builds the echo instance, the admission pipeline and the routes.
func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, redisClient *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	audit := usecase.NewAuditService(repos.SecurityLog, repos.ErrorLog, logger)
	usage := usecase.NewUsageService(repos.ApiLog, repos.User, logger)
	tokens := token.NewService(cfg.JWT, repos.RefreshToken, redisClient, logger)
	gateway := epoint.NewClient(cfg.Gateway, logger)
	googleClient := oauth.NewGoogleClient(cfg.OAuth)
	mailer := mail.NewSender(cfg.SMTP, repos.EmailLog, logger)

	authUsecase := usecase.NewAuthUsecase(repos.User, repos.PasswordReset, tokens,
		googleClient, mailer, audit, cfg.Service.BaseURL, logger)
	paymentUsecase := usecase.NewPaymentUsecase(repos.Plan, repos.Order, repos.Subscription,
		repos.User, gateway, audit, cfg.Gateway, logger)

	routes := middleware.NewRouteTable(publicRoutes, protectedRoutes)

	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(middleware.ErrorHandlerConfig{
		Audit:        audit,
		Logger:       logger,
		IsProduction: cfg.Service.IsProduction(),
	})

	// Admission pipeline. Order matters: CORS and the response logger wrap
	// everything so headers and api_logs rows survive rejections at any stage.
	corsConfig := echomw.CORSConfig{
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization,
			"x-user-id", "xauthuserid"},
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"*"}
	}
	e.Use(middleware.CORSPreflight(cfg.Security.AllowedOrigins))
	e.Use(echomw.CORSWithConfig(corsConfig))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string {
			id, err := gonanoid.New(12)
			if err != nil {
				return "unknown"
			}
			return id
		},
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(middleware.RequestLoggerConfig{
		ApiLogs: repos.ApiLog,
		Audit:   audit,
		Logger:  logger,
	}))
	e.Use(middleware.IPBlacklist(middleware.BlacklistConfig{
		Blacklist: repos.Blacklist,
		Audit:     audit,
		Logger:    logger,
	}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Security:  cfg.Security,
		ApiLogs:   repos.ApiLog,
		Blacklist: repos.Blacklist,
		Audit:     audit,
		Logger:    logger,
	}))
	e.Use(middleware.SecurityHeaders(cfg.Service.IsProduction()))
	e.Use(echomw.BodyLimit(cfg.Security.BodyLimit))
	e.Use(middleware.InputScanner(middleware.ScannerConfig{
		Security:  cfg.Security,
		Blacklist: repos.Blacklist,
		Audit:     audit,
		Logger:    logger,
	}))
	e.Use(middleware.Authentication(middleware.AuthConfig{
		Routes: routes,
		Tokens: tokens,
		Users:  repos.User,
		Audit:  audit,
		Logger: logger,
	}))
	e.Use(middleware.UsageGuard(middleware.UsageConfig{
		Usage:  usage,
		Logger: logger,
	}))

	s := &Server{
		cfg:    cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
		tokens: tokens,
		audit:  audit,
		usage:  usage,
	}
	s.setupRoutes(authUsecase, paymentUsecase)
	return s
}

func (s *Server) setupRoutes(authUsecase *usecase.AuthUsecase, paymentUsecase *usecase.PaymentUsecase) {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"service": s.cfg.Service.Name,
		})
	})

	authHandler := handlers.NewAuthHandler(authUsecase, s.logger)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase, s.logger)
	adminHandler := handlers.NewAdminHandler(s.repos.Blacklist, s.logger)
	usageHandler := handlers.NewUsageHandler(s.usage)

	auth := s.echo.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/google-login", authHandler.GoogleLogin)

	s.echo.POST("/password/reset", authHandler.RequestPasswordReset)
	s.echo.POST("/password/reset/confirm", authHandler.ConfirmPasswordReset)

	payment := s.echo.Group("/api/payment")
	payment.GET("/plans", paymentHandler.ListPlans)
	payment.POST("/order", paymentHandler.CreateOrder)
	payment.GET("/orders", paymentHandler.ListOrders)
	payment.GET("/order/:orderId/status", paymentHandler.GetOrderStatus)
	payment.GET("/check-subscription", paymentHandler.CheckSubscription)
	payment.GET("/subscription", paymentHandler.GetSubscription)

	s.echo.POST("/api/epoint/callback", paymentHandler.Callback)

	s.echo.GET("/api/usage", usageHandler.GetUsage)

	admin := s.echo.Group("/api/admin")
	admin.GET("/blacklist", adminHandler.ListBlacklist)
	admin.POST("/blacklist", adminHandler.AddBlacklistEntry)
	admin.DELETE("/blacklist/:id", adminHandler.RemoveBlacklistEntry)
}

// Start begins serving. It blocks until Shutdown or a listener error.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
