package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"fleet-assistant-backend/config"
	"fleet-assistant-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, logger logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.WithError(err).Warn("invalid trusted proxies, forwarding headers ignored")
		_ = r.SetTrustedProxies(nil)
	}
	if cfg.RequestIPHeader != "" {
		r.RemoteIPHeaders = []string{cfg.RequestIPHeader}
	}
	r.Use(mw.Logger(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Only the chat endpoint is rate limited; dashboard reads are cached instead.
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl)

	api := r.Group("/api")
	{
		api.POST("/assistant/chat", rateLimiter, h.Chat)

		api.GET("/fleet/usage", caching, h.FleetUsage)
		api.GET("/fleet/schedule", caching, h.FleetSchedule)
		api.GET("/transactions/summary", caching, h.TransactionSummary)
		api.GET("/transactions/:number", caching, h.Transaction)

		if h.store != nil {
			api.GET("/subscriptions", h.GetSubscription)
			api.PUT("/subscriptions", rateLimiter, h.PutSubscription)
			api.DELETE("/subscriptions", rateLimiter, h.DeleteSubscription)
			api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		}
	}

	return r
}
