package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ReneKroon/ttlcache"
	"github.com/gin-gonic/gin"

	"recommender/internal/logger"
)

const (
	statusCacheKey   = "recommender-api"
	defaultStatusTTL = 30 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context, timeout time.Duration) error
}

type apiStatus struct {
	Online    bool
	Error     string
	CheckedAt time.Time
}

type StatusHandler struct {
	pinger  Pinger
	cache   *ttlcache.Cache
	logger  *logger.Logger
	timeout time.Duration
}

func NewStatusHandler(pinger Pinger, logger *logger.Logger, timeout, cacheTTL time.Duration) *StatusHandler {
	if cacheTTL <= 0 {
		cacheTTL = defaultStatusTTL
	}

	cache := ttlcache.NewCache()
	cache.SetTTL(cacheTTL)
	cache.SkipTtlExtensionOnHit(true)

	return &StatusHandler{
		pinger:  pinger,
		cache:   cache,
		logger:  logger,
		timeout: timeout,
	}
}

func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status reports whether the recommendation API is reachable ("API Online" / "API
// Offline"). Results are cached for the configured TTL.
func (h *StatusHandler) Status(c *gin.Context) {
	status := h.check(c.Request.Context())

	body := gin.H{
		"api":        "online",
		"checked_at": status.CheckedAt,
	}
	if !status.Online {
		body["api"] = "offline"
		body["error"] = status.Error
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *StatusHandler) check(ctx context.Context) apiStatus {
	if cached, ok := h.cache.Get(statusCacheKey); ok {
		return cached.(apiStatus)
	}

	status := apiStatus{Online: true, CheckedAt: time.Now().UTC()}
	if err := h.pinger.Ping(ctx, h.timeout); err != nil {
		h.logger.Warn("API Offline: %v", err)
		status.Online = false
		status.Error = err.Error()
	}

	h.cache.Set(statusCacheKey, status)
	return status
}

func (h *StatusHandler) Close() {
	h.cache.Close()
}
