package routes

import (
	"fuelmate-api/handlers"
	"fuelmate-api/metrics"
	"fuelmate-api/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Options struct {
	AllowedOrigins []string
	UploadDir      string
	// Redis enables per-IP rate limiting on /api when set
	Redis        *redis.Client
	RateLimitRPS int
}

// NewRouter builds the engine with the shared middleware chain and every route
func NewRouter(h *handlers.Handler, ids middleware.Identifier, log *zap.Logger, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		metrics.Middleware(),
		cors.New(corsConfig(opts.AllowedOrigins)),
	)

	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	SetupRoutes(r, h, ids, log, opts)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.HeaderXRequestID}
	cfg.ExposeHeaders = []string{middleware.HeaderXRequestID}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, ids middleware.Identifier, log *zap.Logger, opts Options) {
	api := r.Group("/api")
	if opts.Redis != nil && opts.RateLimitRPS > 0 {
		api.Use(middleware.RateLimit(opts.Redis, opts.RateLimitRPS, log))
	}

	// ── Public routes ──────────────────────────────────────────────
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		// State machine info (great for docs/Postman)
		api.GET("/state-machine", h.GetStateMachineInfo)
	}

	authed := api.Group("")
	authed.Use(middleware.Identify(ids))
	need := middleware.Require

	// ── Order routes ───────────────────────────────────────────────
	orders := authed.Group("/orders")
	{
		orders.POST("", need(middleware.CapOrderCreate), h.PlaceOrder)
		orders.GET("/myorders", need(middleware.CapOrderListMine), h.GetMyOrders)
		orders.GET("/pending", need(middleware.CapOrderListPending), h.GetPendingOrders)
		orders.GET("/mydeliveries", need(middleware.CapOrderListDeliveries), h.GetMyDeliveries)
		orders.GET("/:id", need(middleware.CapOrderRead), h.GetOrderDetail)
		orders.PUT("/:id/accept", need(middleware.CapOrderAccept), h.AcceptOrder)
		orders.PUT("/:id/reject", need(middleware.CapOrderReject), h.RejectOrder)
		orders.PUT("/:id/status", need(middleware.CapOrderUpdateStatus), h.UpdateOrderStatus)
		orders.PUT("/:id/cancel", need(middleware.CapOrderCancel), h.CancelOrder)
	}

	// ── Profile routes ─────────────────────────────────────────────
	profile := authed.Group("/profile", need(middleware.CapProfileManage))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/upload", h.UploadProfilePicture)
		profile.DELETE("/picture", h.DeleteProfilePicture)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := authed.Group("/admin")
	{
		admin.GET("/orders", need(middleware.CapAdminRead), h.AdminGetAllOrders)
		admin.GET("/orders/report", need(middleware.CapAdminRead), h.AdminGetOrderReport)
		admin.PUT("/orders/:id/status", need(middleware.CapAdminWrite), h.AdminSetOrderStatus)
		admin.GET("/users", need(middleware.CapAdminRead), h.AdminGetAllUsers)
		admin.GET("/drivers/pending", need(middleware.CapAdminRead), h.AdminGetPendingDrivers)
		admin.PUT("/drivers/:id/approve", need(middleware.CapAdminWrite), h.AdminApproveDriver)
		admin.PUT("/drivers/:id/reject", need(middleware.CapAdminWrite), h.AdminRejectDriver)
	}
}
