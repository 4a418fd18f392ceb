package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"fuelmate-api/services"
	"fuelmate-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves every API route; it owns no state beyond its dependencies
type Handler struct {
	auth     *services.AuthService
	orders   *services.OrderService
	profiles *services.ProfileService
	admin    *services.AdminService
	store    store.Store
	log      *zap.Logger

	appName   string
	version   string
	devMode   bool
	timeout   time.Duration
	maxUpload int64
}

type Options struct {
	AppName        string
	Version        string
	Development    bool
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

func New(authSvc *services.AuthService, orders *services.OrderService, profiles *services.ProfileService,
	admin *services.AdminService, st store.Store, log *zap.Logger, opts Options) *Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	return &Handler{
		auth:      authSvc,
		orders:    orders,
		profiles:  profiles,
		admin:     admin,
		store:     st,
		log:       log,
		appName:   opts.AppName,
		version:   opts.Version,
		devMode:   opts.Development,
		timeout:   opts.RequestTimeout,
		maxUpload: opts.MaxUploadBytes,
	}
}

func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrDuplicateEmail, http.StatusBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrUnauthenticated, http.StatusUnauthorized},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrInvalidTransition, http.StatusBadRequest},
	{services.ErrConflict, http.StatusConflict},
}

// respondError maps a domain error to its HTTP status and an error body
func (h *Handler) respondError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, errorBody(publicMessage(err, e.err)))
			return
		}
	}

	status := http.StatusInternalServerError
	msg := "Server error"
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
		msg = "Request timed out"
	}
	_ = c.Error(err)
	h.log.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))

	body := errorBody(msg)
	if h.devMode {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}

// publicMessage drops the sentinel prefix from a wrapped error
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	if detail := strings.TrimPrefix(msg, sentinel.Error()+": "); detail != msg {
		return upperFirst(detail)
	}
	return upperFirst(msg)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody(msg))
}

// errorBody carries the text under "message" for the apps and "error" for older callers
func errorBody(msg string) gin.H {
	return gin.H{"message": msg, "error": msg}
}

// bindOptionalJSON accepts an empty body but rejects malformed JSON
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body")
		return false
	}
	return true
}
