package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"model-registry/internal/adapters/primary/http/handlers"
	"model-registry/internal/adapters/primary/http/middleware"
	"model-registry/internal/adapters/secondary/memory"
	"model-registry/internal/adapters/secondary/postgres"
	"model-registry/internal/adapters/secondary/redis"
	"model-registry/internal/adapters/secondary/s3"
	"model-registry/internal/config"
	"model-registry/internal/core/ports/output"
	"model-registry/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Store (postgres when enabled, in-memory otherwise)
	var store ports.Store
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		if err := postgres.RunMigrations(cfg.Database.MigrationsPath, cfg.Database.DSN()); err != nil {
			log.Fatalf("run migrations: %v", err)
		}

		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			log.Fatalf("parse db config: %v", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
		if err != nil {
			log.Fatalf("create db pool: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalf("ping db: %v", err)
		}
		log.Info("database connection established")
		store = postgres.NewStore(pool)
	} else {
		log.Warn("database disabled, registry state will not survive restarts")
		store = memory.NewStore()
	}

	// Artifact store (optional)
	var artifacts ports.ArtifactStore
	if cfg.Storage.Enabled {
		client, err := s3.NewClient(s3.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
		})
		if err != nil {
			log.Warnf("artifact store init failed (continuing without artifact purge): %v", err)
		} else if err := client.EnsureBucket(context.Background()); err != nil {
			log.Warnf("artifact bucket check failed (continuing without artifact purge): %v", err)
		} else {
			artifacts = client
			log.Info("artifact store initialized")
		}
	} else {
		log.Info("artifact store disabled")
	}

	// Event publisher (optional)
	var events ports.EventPublisher
	if cfg.Events.Enabled {
		pub, err := redis.NewPublisher(context.Background(), redis.Config{
			Addr:     cfg.Events.Addr,
			Password: cfg.Events.Password,
			DB:       cfg.Events.DB,
			Stream:   cfg.Events.Stream,
		})
		if err != nil {
			log.Warnf("event publisher init failed (continuing without events): %v", err)
		} else {
			events = pub
			defer pub.Close()
			log.Info("event publisher initialized")
		}
	} else {
		log.Info("event publishing disabled")
	}

	// Core registry
	registry := services.NewRegistry(store, services.Options{
		NameMaxLength:   cfg.Registry.NameMaxLength,
		PayloadMaxBytes: cfg.Registry.PayloadMaxBytes,
		Artifacts:       artifacts,
		Events:          events,
	})
	if err := registry.WarmStart(context.Background()); err != nil {
		log.Fatalf("warm start registry: %v", err)
	}

	// Primary adapter (HTTP handlers)
	h := handlers.New(registry)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	// Health check with DB ping (no-op on the in-memory store)
	router.GET("/healthz", func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
