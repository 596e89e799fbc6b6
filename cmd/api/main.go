package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/quickone/marketplace-api/internal/chat"
	"github.com/quickone/marketplace-api/internal/config"
	dbpkg "github.com/quickone/marketplace-api/internal/db"
	"github.com/quickone/marketplace-api/internal/middleware"
	"github.com/quickone/marketplace-api/internal/notify"
	"github.com/quickone/marketplace-api/internal/payment"
	"github.com/quickone/marketplace-api/internal/routes"
	"github.com/quickone/marketplace-api/internal/storage"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	// Redis é opcional: sem ele, o chat faz broadcast apenas local
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	hub := chat.NewHub(rdb)
	go hub.Run(ctx)

	dispatcher := notify.NewDispatcher(notify.New(db))

	gateway, err := payment.NewMercadoPago(cfg.MPAccessToken, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("failed to init payment gateway: %v", err)
	}

	uploader := storage.NewS3Uploader(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, hub, gateway, uploader, dispatcher)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// sinal → derruba o hub, drena o servidor e as notificações
	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	dispatcher.Close()

	log.Println("Server stopped")
}
