// dashboard/cmd/devapi/main.go
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

	"mabletask/dashboard/config"
	"mabletask/dashboard/devapi"
)

func main() {
	cfg, err := config.LoadDevAPI()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	api := devapi.NewServer(cfg.JWTSecret, cfg.TokenTTL)
	if cfg.SeedDemo {
		// Give the events screen a week of history to chart.
		n := api.SeedDemo(time.Now())
		log.Printf("Dev API seeded %d demo events", n)
	}
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("Dev API starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Dev API failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down dev API...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Dev API forced to shutdown: %v", err)
	}
	log.Println("Dev API exiting.")
}
