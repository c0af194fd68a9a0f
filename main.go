package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelin/snapfeed-be/internal/api"
	"github.com/avelin/snapfeed-be/internal/auth"
	"github.com/avelin/snapfeed-be/internal/config"
	"github.com/avelin/snapfeed-be/internal/database"
	"github.com/avelin/snapfeed-be/internal/logger"
	"github.com/avelin/snapfeed-be/internal/monitoring"
	"github.com/avelin/snapfeed-be/internal/services"
	"github.com/avelin/snapfeed-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.IsProd)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up the live feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	postService := services.NewPostService(db)
	sessionService := services.NewSessionService(db, cfg.SessionTTL)
	eventService := services.NewEventService(db)

	guard := auth.NewGuard(sessionService, userService, cfg.SessionSecret)

	// Set up and run the background session janitor
	janitor := monitoring.NewSessionJanitor(sessionService)
	go janitor.Run()

	// Set up router
	router := api.NewRouter(cfg, guard, hub, userService, postService, sessionService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
