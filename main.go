// dashboard/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/client"
	"mabletask/dashboard/config"
	"mabletask/dashboard/flow"
	"mabletask/dashboard/gateway"
	"mabletask/dashboard/handlers"
	"mabletask/dashboard/screens"
	"mabletask/dashboard/session"
)

func main() {
	// Load .env and environment (defaults for everything)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Session (persisted key/value store) ---
	persistence, err := session.NewFilePersistence(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to prepare session storage: %v", err)
	}
	sessions, err := session.Open(persistence)
	if err != nil {
		log.Fatalf("Failed to open session %s: %v", persistence.Path(), err)
	}

	// --- Login flow and remote API ---
	history := flow.NewHistory(flow.DashboardPath)
	ctrl := flow.NewController(sessions, history)
	gw := gateway.New(cfg.APIBaseURL, cfg.RequestTimeout, sessions, ctrl)
	api := client.New(gw)

	// --- Screens ---
	productsScreen := screens.NewProductsScreen(api, history)
	eventsScreen := screens.NewEventsScreen(api, history, time.Local)

	r := handlers.NewRouter(handlers.Deps{
		API:      api,
		Sessions: sessions,
		Ctrl:     ctrl,
		History:  history,
		Products: productsScreen,
		Events:   eventsScreen,
		FEOrigin: cfg.FEOrigin,
	})

	// --- HTTP server with graceful shutdown ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Dashboard server starting on http://localhost:%s (API %s)", cfg.Port, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Dashboard server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
