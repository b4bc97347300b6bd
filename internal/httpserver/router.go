package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"escrowfund/internal/auth"
	"escrowfund/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	accountHandler *handler.AccountHandler,
	escrowHandler *handler.EscrowHandler,
	adminHandler *handler.AdminHandler,
	tokens *auth.Manager,
	db *pgxpool.Pool,
	rdb *redis.Client,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(500, gin.H{"status": "redis_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", accountHandler.Register)
	r.POST("/login", accountHandler.Login)
	r.GET("/escrow/project", escrowHandler.GetProject)
	r.GET("/escrow/backers/:identity", escrowHandler.GetBackerInfo)
	// Release is open to any caller; approval is the vote-weight tally.
	r.POST("/escrow/milestones/:index/release", escrowHandler.Release)

	// Authenticated
	authed := r.Group("/")
	authed.Use(AuthMiddleware(tokens))
	{
		authed.POST("/escrow/initialize", escrowHandler.Initialize)
		authed.POST("/escrow/fund", escrowHandler.Fund)
		authed.POST("/escrow/milestones/:index/vote", escrowHandler.Vote)
		authed.POST("/escrow/refund", escrowHandler.Refund)
	}

	// Admin
	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(tokens), RequireRole("admin"))
	{
		admin.POST("/credit", adminHandler.Credit)
		admin.GET("/balance", adminHandler.Balance)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
