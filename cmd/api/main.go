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

	"github.com/joho/godotenv"
	"github.com/justsurfingit/cover-letter-studio/internal/config"
	"github.com/justsurfingit/cover-letter-studio/internal/database"
	"github.com/justsurfingit/cover-letter-studio/internal/handlers"
	"github.com/justsurfingit/cover-letter-studio/internal/services"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Optional backends: submission log and shared download staging
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
	} else {
		log.Println("⚠️  DATABASE_URL not set, submission log disabled")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("✅ Redis connected")
	}

	// 3. Initialize Core Services (Dependencies)
	sessions := services.NewSessionStore(cfg.SessionIdle)
	generator := services.NewGeneratorService(cfg.GeneratorURL, cfg.GeneratorTimeout, cfg.MaxDocumentBytes)
	history := services.NewHistoryService(db, rdb)
	dispatcher := services.NewDispatcher(generator, history)

	sweeper := services.NewSweeper(cfg.SweepSpec)
	sweeper.Add("form sessions", sessions)

	var store services.StagingStore
	if rdb != nil {
		store = services.NewRedisStagingStore(rdb)
	} else {
		mem := services.NewMemoryStagingStore()
		sweeper.Add("downloads", mem)
		store = mem
	}
	staging := services.NewStagingService(store, cfg.DownloadTTL)

	// 4. Start the idle session sweeper
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Sweeper: %v", err)
	}
	defer sweeper.Stop()

	// 5. Setup Router & Handlers
	formHandler := handlers.NewFormHandler(sessions, dispatcher, staging, history, cfg.MaxUploadBytes)
	r := handlers.NewRouter(formHandler, handlers.RouterConfig{
		SessionSecret:   cfg.SessionSecret,
		SessionTTL:      cfg.SessionIdle,
		SecureCookies:   cfg.Release,
		AllowAllOrigins: cfg.AllowAllOrigins(),
		AllowedOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// submit blocks until the document service answers
		WriteTimeout: cfg.GeneratorTimeout + 30*time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s (generator %s)...", cfg.Port, cfg.GeneratorURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Stopped.")
}
