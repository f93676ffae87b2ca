package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/faqhub/knowledge-base/internal/api/docs"
	"github.com/faqhub/knowledge-base/internal/api/handler"
	"github.com/faqhub/knowledge-base/internal/api/middleware"
	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

const apiPrefix = "/api/v1"

// Dependencies is everything NewRouter wires into routes.
type Dependencies struct {
	Log         zerolog.Logger
	Production  bool
	BodyLimit   string
	CORSOrigins []string
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry

	Resolver   ports.IdentityResolver
	Auth       ports.AuthService
	Accounts   ports.AccountService
	Categories ports.RelatedResourceService[domain.Category, domain.CategoryWithAnswers]
	Answers    ports.AnswerService

	HealthChecks map[string]handler.HealthCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.DefaultSecureConfig))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.Gzip())
	e.Use(echomiddleware.BodyLimit(bodyLimit(deps.BodyLimit)))
	e.Use(metricsMiddleware(deps.Registry))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Accounts)
	categoryHandler := handler.NewCategoryHandler(deps.Categories, deps.Answers)
	answerHandler := handler.NewAnswerHandler(deps.Answers)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	protect := middleware.Auth(deps.Resolver)
	protectDeactivated := middleware.Auth(deps.Resolver, middleware.AllowDeactivated())
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group(apiPrefix)

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.PUT("/changeMyPassword", authHandler.ChangeMyPassword, protectDeactivated)
	auth.PUT("/recoverMe", authHandler.RecoverMe, protectDeactivated)
	auth.GET("/logout", authHandler.Logout, protect)

	// --- Category routes ---
	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create, protect, adminOnly)
	categories.GET("/:id", categoryHandler.Get)
	categories.PUT("/:id", categoryHandler.Update, protect, adminOnly)
	categories.DELETE("/:id", categoryHandler.Delete, protect, adminOnly)
	categories.GET("/:id/with-answers", categoryHandler.WithAnswers)
	categories.GET("/:id/answers", categoryHandler.Answers)

	// --- Answer routes ---
	answers := v1.Group("/answers")
	answers.GET("", answerHandler.List)
	answers.POST("", answerHandler.Create, protect, adminOnly)
	answers.GET("/:id", answerHandler.Get)
	answers.PUT("/:id", answerHandler.Update, protect, adminOnly)
	answers.DELETE("/:id", answerHandler.Delete, protect, adminOnly)

	// --- User routes ---
	users := v1.Group("/users", protect)
	users.GET("/getMe", userHandler.GetMe)
	users.PUT("/updateMyPassword", userHandler.UpdateMyPassword)
	users.PUT("/updateMe", userHandler.UpdateMe)
	users.DELETE("/deleteMe", userHandler.DeleteMe)

	users.GET("", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "knowledge_base",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func bodyLimit(limit string) string {
	if limit == "" {
		return "20K"
	}
	return limit
}
