package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stwalsh4118/homematch/api/internal/catalog"
	"github.com/stwalsh4118/homematch/api/internal/config"
	"github.com/stwalsh4118/homematch/api/internal/database"
	apierrors "github.com/stwalsh4118/homematch/api/internal/errors"
	"github.com/stwalsh4118/homematch/api/internal/handlers"
	"github.com/stwalsh4118/homematch/api/internal/logger"
	"github.com/stwalsh4118/homematch/api/internal/matching"
	"github.com/stwalsh4118/homematch/api/internal/middleware"
	"github.com/stwalsh4118/homematch/api/internal/repository"
	"github.com/stwalsh4118/homematch/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	connectTimeout  = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env).WithLevel(cfg.Server.LogLevel)
	log.Info("Starting HomeMatch API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"data_dir":    cfg.Data.Dir,
	})

	// Favorites are optional: without a database the rest of the API still serves.
	db := connectDatabase(cfg.Database, log.WithComponent("database"))
	if db != nil {
		defer db.Close()
	}

	loader := catalog.NewLoader(cfg.Data.Dir, log.WithComponent("catalog"))
	if err := loader.Check(context.Background()); err != nil {
		log.Warn("Listing sources incomplete, affected collections will be empty", map[string]interface{}{
			"dir":   cfg.Data.Dir,
			"error": err.Error(),
		})
	}

	engine := matching.NewEngine(matching.Options{
		Limit:                cfg.Matching.Limit,
		StrictLocationFilter: cfg.Matching.StrictLocationFilter,
	})

	var savedRepo repository.SavedPropertyRepository
	var pinger handlers.Pinger
	if db != nil {
		savedRepo = repository.NewSavedPropertyRepository(db)
		pinger = db
	}

	propertyService := services.NewPropertyService(loader, engine, log.WithComponent("recommender"))
	savedService := services.NewSavedPropertyService(savedRepo, log.WithComponent("favorites"))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.UseJSONFieldNames()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	defer limiter.Stop()

	router := gin.New()

	// RequestID -> Logger -> Recovery -> Metrics -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.CORS.Origins))

	healthHandler := handlers.NewHealthHandler(loader, pinger, cfg.Database.Enabled, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	propertyHandler := handlers.NewPropertyHandler(propertyService, savedService)

	v1 := router.Group("/api/v1")
	v1.GET("/info", healthHandler.Info)
	{
		properties := v1.Group("/properties")
		properties.Use(limiter.Middleware(apierrors.TooManyRequests))
		{
			properties.GET("", propertyHandler.List)
			properties.POST("/recommend", propertyHandler.Recommend)
			properties.POST("/save", propertyHandler.Save)
			properties.GET("/saved", propertyHandler.ListSaved)
			properties.DELETE("/saved/:id", propertyHandler.RemoveSaved)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// connectDatabase opens the favorites store and ensures its schema.
// It returns nil when the database is disabled or unreachable.
func connectDatabase(cfg config.DatabaseConfig, log *logger.Logger) *database.Database {
	if !cfg.Enabled {
		log.Info("Database disabled, saved properties unavailable", nil)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	fields := map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"name": cfg.Name,
	}

	db, err := database.NewPostgresPool(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to database, continuing without saved properties", err, fields)
		return nil
	}

	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("Failed to prepare saved properties schema, continuing without saved properties", err, fields)
		db.Close()
		return nil
	}

	fields["pool_min"] = cfg.PoolMin
	fields["pool_max"] = cfg.PoolMax
	log.Info("Database connection established", fields)
	return db
}
