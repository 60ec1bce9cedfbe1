package http

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"anon-board/internal/service"
)

// RouterOptions agrupa la politica de transporte aplicada antes de los handlers.
type RouterOptions struct {
	AllowedOrigins   []string
	TrustedProxies   []string
	StaticDir        string
	Limiter          service.RateLimiter
	RateLimitMessage string
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, opts RouterOptions, messageH *MessageHandler) *gin.Engine {
	r := gin.New()

	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, ignoring", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), recoveryMiddleware(logger))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: false,
			MaxAge:           5 * time.Minute,
		}))
	} else {
		logger.Warn("no CORS origins configured, cross-origin requests get no CORS headers")
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimitMiddleware(logger, opts.Limiter, opts.RateLimitMessage), jsonContentTypeMiddleware())
	api.GET("/health", Health)
	api.GET("/messages", messageH.ListMessages)
	api.POST("/messages", messageH.CreateMessage)

	if dir := opts.StaticDir; dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "index.html")); err == nil {
			r.StaticFile("/", filepath.Join(dir, "index.html"))
			r.Static("/assets", dir)
		} else {
			logger.Warn("static dir not found, page disabled", zap.String("dir", dir))
		}
	}

	return r
}
