package handlers

import (
	"context"
	"net/http"
	"time"

	"dentalclinic/internal/dto"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/middleware"
	"dentalclinic/internal/realtime"
	"dentalclinic/internal/services"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const wsPath = "/api/v1/ws"

// RouterDeps phụ thuộc để dựng router
type RouterDeps struct {
	AppName        string
	Production     bool
	AllowedOrigins []string
	Mediator       *mediator.Mediator
	Auth           services.AuthService
	// Hub nil khi tắt websocket
	Hub    *realtime.Hub
	Health func(ctx context.Context) error
	Logger *zap.Logger
}

// NewRouter dựng gin engine với middleware và toàn bộ route /api/v1
func NewRouter(d RouterDeps) *gin.Engine {
	if d.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(d.Logger))
	router.Use(middleware.Logging(d.Logger, "/health"))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{wsPath})))
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.CSRFMiddleware(
		"/api/v1/auth/", // login, refresh chưa có CSRF token
		"/health",
	))

	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if d.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Health(ctx); err != nil {
				d.Logger.Warn("health check failed", zap.Error(err))
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": d.AppName,
			"version": "1.0.0",
		})
	})

	authMiddleware := middleware.AuthMiddleware(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)

	api := router.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		NewAuthHandler(d.Auth, d.Production, d.Logger).RegisterRoutes(api, authMiddleware)

		// Route công khai, có đăng nhập thì kết quả theo role
		public := api.Group("")
		public.Use(optionalAuth)

		protected := api.Group("")
		protected.Use(authMiddleware)

		NewCatalogHandler(d.Mediator).RegisterRoutes(public, protected)
		NewPromotionHandler(d.Mediator).RegisterRoutes(public, protected)
		NewChatBotHandler(d.Mediator).RegisterRoutes(public, protected)

		NewNotificationHandler(d.Mediator).RegisterRoutes(protected)
		NewScheduleHandler(d.Mediator).RegisterRoutes(protected)
		NewAppointmentHandler(d.Mediator).RegisterRoutes(protected)
		NewTreatmentHandler(d.Mediator).RegisterRoutes(protected)
		NewPrescriptionHandler(d.Mediator).RegisterRoutes(protected)
		NewTransactionHandler(d.Mediator).RegisterRoutes(protected)
		NewPatientHandler(d.Mediator).RegisterRoutes(protected)
		NewUserHandler(d.Mediator).RegisterRoutes(protected)

		if d.Hub != nil {
			router.GET(wsPath, authMiddleware, func(c *gin.Context) {
				d.Hub.ServeWS(c.Writer, c.Request)
			})
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Error("NOT_FOUND", "Không tìm thấy đường dẫn"))
	})

	return router
}
