package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicmap/civic-reports/internal/api/handler"
	"github.com/civicmap/civic-reports/internal/api/middleware"
	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
	"github.com/civicmap/civic-reports/internal/core/service"
	"github.com/civicmap/civic-reports/internal/infrastructure/config"
	mongostore "github.com/civicmap/civic-reports/internal/infrastructure/db/mongo"
	redisstore "github.com/civicmap/civic-reports/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mailer ports.Mailer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civic"))

	// --- Repositories ---
	userRepo := mongostore.NewUserRepository(db)
	activationRepo := mongostore.NewActivationRepository(db)
	resetRepo := mongostore.NewResetRequestRepository(db)
	reportRepo := mongostore.NewReportRepository(db)
	voteRepo := mongostore.NewVoteRepository(db)
	throttle := redisstore.NewMailThrottle(rdb, 0)

	// --- Services ---
	hasher := service.NewPasswordHasher()
	codec := service.NewTokenCodec(cfg.Auth.JWTSecret)
	mailTokens := service.NewMailTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.MailTokenTTL)

	authService := service.NewAuthService(userRepo, hasher, codec, cfg.Auth.AccessTokenTTL, log)
	accountService := service.NewAccountService(userRepo, activationRepo, resetRepo, hasher, mailTokens, mailer, throttle, cfg.BaseURL, log)
	userService := service.NewUserService(userRepo, hasher, log)
	reportService := service.NewReportService(reportRepo, log)
	voteService := service.NewVoteService(voteRepo, reportRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, accountService)
	userHandler := handler.NewUserHandler(userService)
	reportHandler := handler.NewReportHandler(reportService)
	voteHandler := handler.NewVoteHandler(voteService)

	authed := middleware.Auth(codec, userRepo)
	moderatorOnly := middleware.RequireLevel(domain.AccountModerator)
	adminOnly := middleware.RequireLevel(domain.AccountAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/activate", authHandler.Activate)
	e.POST("/auth/password-recovery", authHandler.RecoverPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// --- User routes ---
	users := e.Group("/users", authed)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)
	users.PATCH("/me/password", userHandler.UpdateMyPassword)
	users.POST("/me/make-admin", userHandler.MakeAdmin)
	users.GET("", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.GET("/:id", userHandler.GetByID, adminOnly)
	users.PATCH("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Report routes ---
	e.GET("/reports", reportHandler.ListInBounds)
	e.GET("/reports/types", reportHandler.Types)
	e.GET("/reports/statuses", reportHandler.Statuses)
	e.GET("/reports/:id", reportHandler.GetByID)
	e.POST("/reports", reportHandler.Create, authed)
	e.PATCH("/reports/:id", reportHandler.Edit, authed, moderatorOnly)
	e.PATCH("/reports/:id/status", reportHandler.ChangeStatus, authed, moderatorOnly)
	e.DELETE("/reports/:id", reportHandler.Delete, authed, moderatorOnly)

	// --- Vote routes ---
	e.PUT("/reports/:id/vote", voteHandler.Cast, authed)
	e.GET("/reports/:id/vote", voteHandler.Mine, authed)
	e.GET("/reports/:id/votes/:user_id", voteHandler.OfUser, authed, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
