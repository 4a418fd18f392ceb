package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of every HTTP request, labelled by the matched route template
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fuelmate_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by method, route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	OrdersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelmate_orders_created_total",
		Help: "Orders placed, by fuel type",
	}, []string{"fuel_type"})

	OrderTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelmate_order_transitions_total",
		Help: "Order status changes, by previous and new status",
	}, []string{"from", "to"})
)

var once sync.Once

// Init registers the collectors with the default registry; safe to call more than once
func Init() {
	once.Do(func() {
		prometheus.MustRegister(HTTPRequestDuration, OrdersCreated, OrderTransitions)
	})
}

// Middleware observes request latency; unmatched routes are grouped under "unmatched"
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
