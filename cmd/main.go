package main

import (
	"net/http"
	"vehicle-service/internal/handler"
	mid "vehicle-service/internal/middleware"
	"vehicle-service/internal/service"
	"vehicle-service/pkg/config"
	"vehicle-service/pkg/database"
	"vehicle-service/pkg/logger"
	"vehicle-service/pkg/remote"
	"vehicle-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting vehicle-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Build the clients for the collaborating microservices. They share one
	// HTTP client and one retry policy.
	httpClient := &http.Client{Timeout: appConfig.Services.HTTPTimeout}
	policy := remote.DefaultRetryPolicy(appConfig.Retry.MaxRetries, appConfig.Retry.Delay)
	userClient := remote.NewUserClient(appConfig.Services.UserServiceURL, httpClient, policy, log)
	stockClient := remote.NewStockClient(appConfig.Services.StockServiceURL, httpClient, policy, log)
	trackingClient := remote.NewTrackingClient(appConfig.Services.TrackingServiceURL, httpClient, policy, log)

	// Build the workflow services and handlers
	db := database.GetDB()
	boitierService := service.NewBoitierService(db, stockClient, log)
	vehicleService := service.NewVehicleService(db, userClient, trackingClient, log)
	boitierHandler := handler.NewBoitierHandler(boitierService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware(log))

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Boitier API routes
	boitierAPI := e.Group("/api/boitier")
	boitierAPI.POST("/", boitierHandler.Create)
	boitierAPI.GET("/", boitierHandler.List)
	boitierAPI.DELETE("/:id", boitierHandler.Delete)

	// Vehicle API routes
	vehicleAPI := e.Group("/api/vehicles")
	vehicleAPI.POST("/", vehicleHandler.Create)
	vehicleAPI.GET("/", vehicleHandler.List)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
