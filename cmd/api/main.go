package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/igwt-platform/igwt/internal/admin"
	"github.com/igwt-platform/igwt/internal/alerts"
	"github.com/igwt-platform/igwt/internal/auth"
	"github.com/igwt-platform/igwt/internal/config"
	"github.com/igwt-platform/igwt/internal/db"
	"github.com/igwt-platform/igwt/internal/marketplace"
	"github.com/igwt-platform/igwt/internal/messaging"
	appmw "github.com/igwt-platform/igwt/internal/middleware"
	"github.com/igwt-platform/igwt/internal/store"
	"github.com/igwt-platform/igwt/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Storage: Postgres when a DSN is configured, in-memory otherwise.
	var st store.Store
	if cfg.PostgresDSN != "" {
		pool, err := db.Connect(context.Background(), cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		st = store.NewPostgres(pool)
	} else {
		log.Printf("no POSTGRES_DSN configured, using in-memory store")
		st = store.NewMemory()
	}
	defer st.Close()

	alerts.Init(cfg.RedisAddr, cfg.AdminEmail)
	defer alerts.Close()

	svc := marketplace.NewService(st, cfg.AdminEmail, cfg.SubscriptionFee)
	msgSvc := messaging.NewService(st)

	authH := auth.NewHandler(st, []byte(cfg.JWTSecret))
	marketH := marketplace.NewHandler(svc)
	msgH := messaging.NewHandler(msgSvc)
	userH := user.NewHandler(st, svc)
	adminH := admin.NewHandler(svc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/ready", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// Public routes
	e.POST("/api/register", authH.Register)
	e.POST("/api/login", authH.Login)
	e.GET("/api/gigs", marketH.ListGigs)
	e.GET("/api/gigs/:id", marketH.GetGig)
	e.GET("/api/users/:id", userH.GetPublicProfile)

	// Authenticated group
	g := e.Group("", appmw.JWT([]byte(cfg.JWTSecret)))

	g.GET("/api/me", authH.Me)
	g.POST("/api/subscribe", userH.Subscribe)
	g.POST("/api/portfolio", userH.AddPortfolioItem)

	g.POST("/api/gigs", marketH.CreateGig)
	g.POST("/api/orders", marketH.CreateOrder)
	g.GET("/api/orders", marketH.ListOrders)
	g.PATCH("/api/orders/:id", marketH.UpdateOrderStatus)
	g.GET("/api/orders/:orderId/escrow", marketH.GetEscrow)
	g.POST("/api/escrow/:id/release", marketH.ReleaseEscrow)
	g.POST("/api/disputes", marketH.OpenDispute)
	g.POST("/api/reviews", marketH.SubmitReview)

	g.GET("/api/orders/:orderId/messages", msgH.ListMessages)
	g.POST("/api/messages", msgH.SendMessage)
	g.GET("/ws/orders/:id", msgH.OrderWS)

	// Admin routes
	adminGroup := e.Group("/admin", appmw.JWT([]byte(cfg.JWTSecret)), appmw.AdminGuard)
	adminGroup.GET("/disputes", adminH.ListDisputes)
	adminGroup.POST("/disputes/:id/resolve", adminH.ResolveDispute)
	adminGroup.GET("/stats", adminH.Stats)

	log.Printf("API server listening on %s", cfg.HTTPAddr)
	if err := e.Start(cfg.HTTPAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
