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
	_ "time/tzdata" // Africa/Luanda on hosts without a zoneinfo database

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/config"
	"github.com/smarttransit/agent-ticketing-backend/internal/database"
	"github.com/smarttransit/agent-ticketing-backend/internal/handlers"
	"github.com/smarttransit/agent-ticketing-backend/internal/middleware"
	"github.com/smarttransit/agent-ticketing-backend/internal/services"
	"github.com/smarttransit/agent-ticketing-backend/internal/utils"
	"github.com/smarttransit/agent-ticketing-backend/pkg/jwt"
	"github.com/smarttransit/agent-ticketing-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartTransit agent ticketing backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Database
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db.DB.DB, logger)
		if err != nil {
			logger.Fatalf("Failed to prepare migrations: %v", err)
		}
		if err := migrator.Up(); err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	displayLocation, err := time.LoadLocation(cfg.Ticketing.DisplayTimezone)
	if err != nil {
		logger.Fatalf("Failed to load display timezone: %v", err)
	}

	// Repositories
	tripRepo := database.NewTripRepository(db.DB)
	holdRepo := database.NewReservationHoldRepository(db.DB)
	ticketRepo := database.NewTicketRepository(db.DB, logger)
	passengerRepo := database.NewPassengerRepository(db.DB)
	paymentRepo := database.NewPaymentTransactionRepository(db.DB, logger)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)
	occupancyService := services.NewOccupancyService(tripRepo, ticketRepo, holdRepo, logger)
	tripService := services.NewTripService(tripRepo, occupancyService, cfg.Ticketing.ExchangeRateUSDKz, logger)
	passengerService := services.NewPassengerService(passengerRepo, validator.NewPhoneNormalizer(), logger)
	ticketService := services.NewTicketService(
		tripRepo,
		passengerRepo,
		ticketRepo,
		paymentRepo,
		occupancyService,
		services.NewReferenceGenerator(),
		services.TicketServiceConfig{
			Currency:          cfg.Ticketing.Currency,
			ReferenceAttempts: cfg.Ticketing.ReferenceAttempts,
			ExchangeRate:      cfg.Ticketing.ExchangeRateUSDKz,
			DisplayLocation:   displayLocation,
		},
		logger,
	)
	historyService := services.NewHistoryService(ticketRepo, services.HistoryServiceConfig{
		ExchangeRate: cfg.Ticketing.ExchangeRateUSDKz,
		DefaultLimit: cfg.Ticketing.HistoryDefaultSize,
		MaxLimit:     cfg.Ticketing.HistoryMaxSize,
		Location:     displayLocation,
	}, logger)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORS.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Health:     handlers.NewHealthHandler(db, logger),
		Trips:      handlers.NewTripHandler(tripService, occupancyService, logger),
		Passengers: handlers.NewPassengerHandler(passengerService, logger),
		Tickets:    handlers.NewTicketHandler(ticketService, logger),
		History:    handlers.NewHistoryHandler(historyService, logger),
	}, jwtService, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// allowsAnyOrigin reports whether the CORS origin list is the wildcard,
// which gin-contrib/cors refuses to combine with credentials
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// requestLogger logs every request with the counter terminal's address and device
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		device := utils.ParseUserAgent(utils.GetUserAgent(c))
		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       c.Request.URL.RawQuery,
			"ip":          utils.GetRealIP(c),
			"latency_ms":  time.Since(start).Milliseconds(),
			"device_type": device.DeviceType,
			"os":          device.OS,
			"browser":     device.Browser,
			"has_auth":    c.GetHeader("Authorization") != "",
		}
		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["roles"] = userCtx.Roles
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
