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

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/auth"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/config"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/db"
	apihttp "github.com/itsmeurbi/medical-control-electron-sub000/internal/http"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/messaging"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/telemetry"
)

func main() {
	log.Println("medical-control API starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: failed to initialize telemetry: %v", err)
	}
	if provider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			provider.Shutdown(shutdownCtx)
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: failed to initialize metrics: %v", err)
		metrics = nil
	}

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	publisher, err := messaging.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ: %v", err)
		log.Println("Service will continue without event publishing")
		publisher = nil
	}
	if publisher != nil {
		defer publisher.Close()
	}

	sessions := auth.NewSessions(auth.Config{
		AppKey:        cfg.Auth.AppKey,
		SessionSecret: cfg.Auth.SessionSecret,
		SessionTTL:    cfg.Auth.SessionTTL,
	})

	router := apihttp.SetupRouter(database, sessions, publisherOrNil(publisher), metrics)
	handler := apihttp.CORSMiddleware(cfg.AllowedOrigins)(router)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("✓ Listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("✓ Server stopped")
}

// publisherOrNil keeps the messaging interface nil when RabbitMQ is absent
// so services skip publishing instead of calling through a nil pointer.
func publisherOrNil(p *messaging.Publisher) messaging.PublisherInterface {
	if p == nil {
		return nil
	}
	return p
}
