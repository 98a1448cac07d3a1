package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"coverhub/internal/analytics"
	"coverhub/internal/catalog"
	"coverhub/internal/chat"
	"coverhub/internal/events"
	"coverhub/internal/ingest"
	"coverhub/internal/notify"
	"coverhub/internal/review"
	"coverhub/internal/reviewers"
	"coverhub/pkg/database"
	"coverhub/pkg/utils"
)

func main() {
	cfg := utils.LoadServerConfig()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	reviewerRepo := reviewers.NewRepo(db)
	if len(cfg.Reviewers) > 0 {
		if err := reviewerRepo.Seed(context.Background(), cfg.Reviewers); err != nil {
			log.Fatalf("seed reviewers failed: %v", err)
		}
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Event fan-out: TCP line subscribers plus the /ws endpoint.
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(cfg.TCPAddr, hub)

	// Reviewer discussion rooms.
	chatHub := chat.NewHub(0)
	router.GET("/chat", chat.WSHandler(chatHub))
	router.GET("/chat/history", chat.HistoryHandler(chatHub))

	// UDP new-work pushes for idle reviewer clients.
	registry := notify.NewRegistry()
	notifier := notify.NewServer(cfg.UDPAddr, registry, nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":          dbCfg.Path,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	catalogRepo := catalog.NewRepo(db)

	api := router.Group("/api")

	reviewers.NewHandler(reviewerRepo).RegisterRoutes(api)
	review.NewHandler(catalogRepo, hub).RegisterRoutes(api)
	analytics.NewHandler(catalogRepo).RegisterRoutes(api)

	ingestSvc := ingest.NewService(catalogRepo, reviewerRepo)
	ingest.NewHandler(ingestSvc, hub, notifier, cfg.SyncSecret).RegisterRoutes(api)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := notifier.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}
	if err := notifier.Close(); err != nil {
		log.Printf("udp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
