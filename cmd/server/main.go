package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/api"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/cache"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/config"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/repository/postgres"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/service/analysis"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/storage"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}

	repo := postgres.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	var resultCache analysis.ResultCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unavailable (%v), running without result cache", err)
		} else {
			resultCache = cache.New(rdb, time.Duration(cfg.Redis.TTLMinutes)*time.Minute)
			log.Printf("Result cache enabled at %s", cfg.Redis.Addr)
		}
	}

	archive, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize export archive: %v", err)
	}

	svc := analysis.New(repo, resultCache, archive, cfg.Scoring)
	server := api.NewServer(cfg.Server, api.NewHandlers(svc))

	go func() {
		log.Printf("SEO analysis API listening on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
