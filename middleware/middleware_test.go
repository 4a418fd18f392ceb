package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fuelmate-api/models"
	"fuelmate-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubIdentifier map[string]*models.User

func (s stubIdentifier) Identify(_ context.Context, token string) (*models.User, error) {
	if token == "deleted" {
		return nil, fmt.Errorf("%w: user not found", services.ErrUnauthenticated)
	}
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: token failed", services.ErrUnauthenticated)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if body["message"] != body["error"] {
		t.Fatalf("message %q and error %q differ", body["message"], body["error"])
	}
	return body["message"]
}

func TestIdentifyAndRequire(t *testing.T) {
	ids := stubIdentifier{
		"cust":   {ID: "c1", Role: models.RoleCustomer},
		"driver": {ID: "d1", Role: models.RoleDriver},
	}
	r := gin.New()
	r.GET("/pending", Identify(ids), Require(CapOrderListPending), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c), "role": GetRole(c)})
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Not authorized, no token"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Not authorized, token failed"},
		{"deleted user", "Bearer deleted", http.StatusUnauthorized, "Not authorized, user not found"},
		{"wrong role", "Bearer cust", http.StatusForbidden, "Access denied. Required role(s): driver, admin"},
		{"allowed", "Bearer driver", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/pending", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.message != "" {
				if got := decodeError(t, w); got != tt.message {
					t.Errorf("error = %q, want %q", got, tt.message)
				}
			}
		})
	}
}

func TestCapabilityTable(t *testing.T) {
	tests := []struct {
		role models.UserRole
		cap  Capability
		want bool
	}{
		{models.RoleCustomer, CapOrderCreate, true},
		{models.RoleDriver, CapOrderCreate, false},
		{models.RoleDriver, CapOrderAccept, true},
		{models.RoleAdmin, CapOrderAccept, false},
		{models.RoleAdmin, CapOrderReject, true},
		{models.RoleCustomer, CapOrderReject, false},
		{models.RoleCustomer, CapOrderCancel, true},
		{models.RoleDriver, CapAdminRead, false},
		{models.RoleAdmin, Capability("unknown"), false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.role, tt.cap); got != tt.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

func TestRequireWithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/x", Require(CapAdminRead), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(w.Header().Get(HeaderXRequestID)); err != nil {
		t.Fatalf("generated id %q is not a uuid", w.Header().Get(HeaderXRequestID))
	}
	if w.Body.String() != w.Header().Get(HeaderXRequestID) {
		t.Errorf("context id %q != header %q", w.Body.String(), w.Header().Get(HeaderXRequestID))
	}

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderXRequestID) != given {
		t.Errorf("incoming id not kept: %q", w.Header().Get(HeaderXRequestID))
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := decodeError(t, w); got != "Internal server error" {
		t.Errorf("error = %q", got)
	}
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	r := gin.New()
	r.Use(RateLimit(rdb, 1, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
}

// redis6 answers INCR, EXPIRE and TTL in memory and refuses the NX/XX/GT/LT
// expire flags that older servers do not know.
type redis6 struct {
	counts  map[string]int64
	expires int
}

func (r *redis6) DialHook(next redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("dial disabled")
	}
}

func (r *redis6) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		switch cmd.Name() {
		case "incr":
			key := fmt.Sprint(args[1])
			r.counts[key]++
			cmd.(*redis.IntCmd).SetVal(r.counts[key])
		case "expire":
			if len(args) > 3 {
				err := errors.New("ERR wrong number of arguments for 'expire' command")
				cmd.SetErr(err)
				return err
			}
			r.expires++
			cmd.(*redis.BoolCmd).SetVal(true)
		case "ttl":
			cmd.(*redis.DurationCmd).SetVal(time.Second)
		default:
			err := fmt.Errorf("ERR unknown command '%s'", strings.ToUpper(cmd.Name()))
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func (r *redis6) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		err := errors.New("pipelines not supported here")
		for _, cmd := range cmds {
			cmd.SetErr(err)
		}
		return err
	}
}

func TestRateLimitLimitsOnOlderRedis(t *testing.T) {
	fake := &redis6{counts: map[string]int64{}}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(fake)
	defer rdb.Close()

	r := gin.New()
	r.Use(RateLimit(rdb, 2, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i, code := range want {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != code {
			t.Fatalf("request %d status = %d, want %d", i, w.Code, code)
		}
	}
	if fake.expires != 1 {
		t.Errorf("expire calls = %d, want 1 (first request of the window only)", fake.expires)
	}
}
