package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/pickboard/internal/config"
	"github.com/sujalbistaa/pickboard/internal/ws"
)

const limiterSweepInterval = 10 * time.Minute

// SetupRoutes configures all application routes and middleware. The rate
// limiter janitor stops with ctx.
func SetupRoutes(ctx context.Context, router *gin.Engine, cfg *config.Config, env *Env, hub *ws.Hub) {

	// --- Middleware ---
	router.Use(RequestLogger(env.Logger))
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.Server.CORSOrigin != "*",
	}))

	// --- Rate Limiter Setup ---
	limiter := NewIPRateLimiter(rate.Every(cfg.RateLimit.Every()), cfg.RateLimit.Burst)
	go limiter.Janitor(ctx, limiterSweepInterval)

	// --- API Routes ---
	api := router.Group("/api")
	{
		api.POST("/vote", RateLimitMiddleware(limiter), env.SubmitVote)
		api.GET("/vote/stats/:id", env.GetVoteStats)
		api.GET("/vote/check/:id", env.CheckVote)
		api.GET("/posts/:id/analysis", env.GetAnalysis)
		if cfg.Server.AdminToken != "" {
			api.POST("/admin/generate", AdminAuthMiddleware(cfg.Server.AdminToken), env.AdminGenerate)
		}
	}
	router.GET("/health", env.Health)

	// --- WebSocket Route ---
	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			ws.ServeWs(hub, c.Writer, c.Request)
		})
	}

	// --- Serve Frontend ---
	router.StaticFile("/", cfg.Page.OutputFile)
}
