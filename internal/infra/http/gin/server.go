package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"frontdesk/internal/infra/config"
	"frontdesk/internal/infra/obs"
)

type PricingHTTP interface {
	Quote(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
}

type AuditHTTP interface {
	Current(c *gin.Context)
	Start(c *gin.Context)
	NoShowCandidates(c *gin.Context)
	ProcessNoShows(c *gin.Context)
	RolloverRooms(c *gin.Context)
	CashierData(c *gin.Context)
	CloseShifts(c *gin.Context)
	RolloverDate(c *gin.Context)
	Finalize(c *gin.Context)
	ProgressTrail(c *gin.Context)
}

type Handlers struct {
	Pricing PricingHTTP
	Booking BookingHTTP
	Audit   AuditHTTP

	// MetricsMiddleware and MetricsEndpoint are optional; absent both the
	// server runs without a scrape surface.
	MetricsMiddleware gin.HandlerFunc
	MetricsEndpoint   gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	if h.MetricsMiddleware != nil {
		router.Use(h.MetricsMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Operator-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.MetricsEndpoint != nil {
		router.GET("/metrics", h.MetricsEndpoint)
	}

	api := router.Group("/api/v1")
	if h.Pricing != nil {
		api.POST("/pricing/quote", h.Pricing.Quote)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
	}
	if h.Audit != nil {
		audit := api.Group("/hotels/:id/night-audit")
		audit.GET("", h.Audit.Current)
		audit.POST("", h.Audit.Start)
		audit.GET("/no-shows", h.Audit.NoShowCandidates)
		audit.POST("/no-shows", h.Audit.ProcessNoShows)
		audit.POST("/rooms", h.Audit.RolloverRooms)
		audit.GET("/cashier", h.Audit.CashierData)
		audit.POST("/cashier", h.Audit.CloseShifts)
		audit.POST("/date", h.Audit.RolloverDate)
		audit.POST("/finalize", h.Audit.Finalize)
		audit.GET("/progress", h.Audit.ProgressTrail)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
