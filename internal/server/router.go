package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "library-api/internal/docs"
	"library-api/internal/library/books"
	"library-api/internal/library/loans"
	"library-api/internal/platform/auth"
	"library-api/internal/platform/config"
	"library-api/internal/platform/db"
	"library-api/internal/platform/httpx"
	"library-api/internal/platform/metrics"
)

var defaultCORSOrigins = []string{"http://localhost:3000"}

// NewRouter wires middleware and every route. authSvc guards the write routes when auth is enabled.
func NewRouter(cfg *config.Config, conn *db.DB, authSvc *auth.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), metrics.Middleware())
	_ = r.SetTrustedProxies(nil)

	if rl := cfg.HTTP.RateLimit; rl.RPS > 0 {
		r.Use(httpx.NewRateLimiter(rl.RPS, rl.Burst).Middleware())
	}

	if cfg.Mode == config.ModeDev {
		// CORS（開発中のみ必要）
		origins := cfg.HTTP.CORSOrigins
		if len(origins) == 0 {
			origins = defaultCORSOrigins
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpx.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Location", httpx.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := conn.PingContext(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	var guards []gin.HandlerFunc
	api := r.Group("/api")
	if cfg.Auth.Enabled && authSvc != nil {
		guards = append(guards, authSvc.RequireAuth())
		auth.RegisterRoutes(api, authSvc)
	}

	bookSvc := books.NewService(conn)
	books.RegisterRoutes(api, bookSvc, guards...)
	loans.RegisterRoutes(api, loans.NewService(conn, cfg.Loans.LateAfterDays), bookSvc, guards...)

	r.NoRoute(func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return r
}
