package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ewersson/app-api/docs"
	"github.com/ewersson/app-api/internal/api/handler"
	"github.com/ewersson/app-api/internal/api/middleware"
	"github.com/ewersson/app-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers and middleware.
// Mongo and Redis are optional and only feed the readiness probe.
type Deps struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Tokens   ports.TokenService
	Users    ports.UserRepository

	Mongo *mongo.Database
	Redis *redis.Client

	CORSAllowedOrigins []string
	Logger             zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// HTTP metrics get their own registry so several routers can coexist in
	// one process; /metrics serves it next to the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
	}))

	// --- Security: identity first, then the static policy ---
	e.Use(middleware.Identity(d.Tokens, d.Users, d.Logger))
	e.Use(middleware.Authorize(middleware.DefaultPolicy()))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	e.GET("/users/me", handler.NewUserHandler().Me)

	// --- Products ---
	productHandler := handler.NewProductHandler(d.Products)
	e.POST("/products", productHandler.Create)
	e.GET("/products/all", productHandler.List)
	e.GET("/products/:id", productHandler.Get)
	e.DELETE("/products/:id", productHandler.Delete)
	e.PATCH("/products/:id/stock", productHandler.UpdateStock)

	// --- Operational (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis, d.Logger)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
