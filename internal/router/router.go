package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"taskpilot/docs"
	"taskpilot/internal/config"
	"taskpilot/internal/handler"
	appmw "taskpilot/internal/middleware"
)

const (
	bodyLimit          = "100K"
	rateLimitedMessage = "Too many authentication requests, please try again later."
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Category *handler.CategoryHandler
	Task     *handler.TaskHandler
	Seed     *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	sessions appmw.SessionValidator,
	h Handlers,
) {
	e.HTTPErrorHandler = handler.NewErrorHandler(log, cfg.IsDevelopment())

	e.Use(middleware.RequestID())
	e.Use(appmw.RequestLogging(log))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API is running...")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	authGroup := api.Group("/auth", authRateLimiter(cfg))
	authGroup.POST("/register/send-otp", h.Auth.SendRegisterOTP)
	authGroup.POST("/register/verify-otp", h.Auth.VerifyRegisterOTP)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/forgot-password/send-otp", h.Auth.SendResetOTP)
	authGroup.POST("/forgot-password/verify-otp", h.Auth.VerifyResetOTP)
	authGroup.POST("/forgot-password/reset", h.Auth.ResetPassword)

	if cfg.IsDevelopment() && h.Seed != nil {
		api.POST("/seed/demo", h.Seed.SeedDemo)
	}

	// Secured routes (require a session token). Attached per route so
	// unknown /api paths still answer 404.
	secured := appmw.RequireUser(sessions)

	api.GET("/protected", h.User.Protected, secured)
	api.GET("/users/me", h.User.Me, secured)

	api.GET("/categories", h.Category.List, secured)
	api.POST("/categories", h.Category.Create, secured)

	api.GET("/tasks", h.Task.List, secured)
	api.POST("/tasks", h.Task.Create, secured)
	api.PUT("/tasks/:id", h.Task.Update, secured)
	api.DELETE("/tasks/:id", h.Task.Delete, secured)
}

// authRateLimiter allows AuthRateLimitMax requests per client IP per window.
func authRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.AuthRateLimitMax) / cfg.AuthRateLimitWindow.Seconds()),
		Burst:     cfg.AuthRateLimitMax,
		ExpiresIn: cfg.AuthRateLimitWindow,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(_ echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, rateLimitedMessage)
		},
	})
}
