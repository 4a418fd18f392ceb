package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareObservesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()
	Init()

	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/orders/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.CollectAndCount(HTTPRequestDuration)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("status = %d", w.Code)
	}
	if got := testutil.CollectAndCount(HTTPRequestDuration); got != before+1 {
		t.Fatalf("series count = %d, want %d", got, before+1)
	}
}

func TestOrderCounters(t *testing.T) {
	OrdersCreated.WithLabelValues("Diesel").Inc()
	if got := testutil.ToFloat64(OrdersCreated.WithLabelValues("Diesel")); got < 1 {
		t.Fatalf("orders created = %v", got)
	}
	OrderTransitions.WithLabelValues("Pending", "Assigned_To_Driver").Inc()
	if got := testutil.ToFloat64(OrderTransitions.WithLabelValues("Pending", "Assigned_To_Driver")); got < 1 {
		t.Fatalf("transitions = %v", got)
	}
}
