package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Piladin/ZTPAI/docs"
	"github.com/Piladin/ZTPAI/internal/api/handler"
	"github.com/Piladin/ZTPAI/internal/api/middleware"
	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built on.
type Dependencies struct {
	Auth          ports.AuthService
	Announcements ports.AnnouncementService
	Users         ports.UserService
	// Health lists the dependencies checked by the readiness check.
	Health map[string]handler.Pinger
	Logger zerolog.Logger
	// Registerer and Gatherer enable HTTP metrics and /metrics/ when set.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	// Every route is registered with a trailing slash; clients may omit it.
	e.Pre(echomiddleware.AddTrailingSlashWithConfig(echomiddleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/swagger")
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "tutoring",
			Registerer: deps.Registerer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics/"
			},
		}))
	}

	authHandler := handler.NewAuthHandler(deps.Auth)
	announcementHandler := handler.NewAnnouncementHandler(deps.Announcements)
	userHandler := handler.NewUserHandler(deps.Users)
	healthHandler := handler.NewHealthHandler(deps.Health)
	authMiddleware := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	e.POST("/register/", authHandler.Register)
	e.POST("/login/", authHandler.Login)
	e.POST("/token/refresh/", authHandler.Refresh)

	// --- Announcements: public reads ---
	e.GET("/announcements/", announcementHandler.List)
	e.GET("/announcements/search/", announcementHandler.Search)
	e.GET("/announcements/:id/", announcementHandler.Get)

	// --- Announcements: authenticated writes ---
	e.POST("/announcements/add/", announcementHandler.Create, authMiddleware)
	e.PUT("/announcements/edit/:id/", announcementHandler.Update, authMiddleware)
	e.DELETE("/announcements/delete/:id/", announcementHandler.Delete, authMiddleware)

	// --- Current user ---
	me := e.Group("/user", authMiddleware)
	me.GET("/me/", userHandler.Me)
	me.PUT("/edit/", userHandler.UpdateMe)

	// --- User directory (administrators) ---
	users := e.Group("/users", authMiddleware, middleware.RequireRole(domain.RoleAdministrator))
	users.GET("/", userHandler.List)
	users.DELETE("/:id/", userHandler.Delete)
	users.DELETE("/delete/:id/", userHandler.Delete)

	// --- Health checks (no auth required) ---
	e.GET("/health/", healthHandler.Liveness)
	e.GET("/health/ready/", healthHandler.Readiness)

	if deps.Gatherer != nil {
		e.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
