package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/api"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/crio"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/facebook"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/geoip"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/gohighlevel"
	"github.com/mbintumar0519/xenonbpd/pkg/clients/sheets"
	"github.com/mbintumar0519/xenonbpd/pkg/config"
	"github.com/mbintumar0519/xenonbpd/pkg/metrics"
	"github.com/mbintumar0519/xenonbpd/pkg/middleware"
	"github.com/mbintumar0519/xenonbpd/pkg/ratelimit"
	"github.com/mbintumar0519/xenonbpd/pkg/services"
	"github.com/mbintumar0519/xenonbpd/pkg/tasks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Strict mode requires a v1 JWT key; fail fast instead of at the first lead
	if err := cfg.ValidateCRMKey(); err != nil {
		logger.Fatal("invalid CRM configuration", zap.Error(err))
	}

	metrics.Register()

	// Initialize API clients
	crmClient := gohighlevel.NewClient(logger, cfg.GHLAPIKey, cfg.GHLCalendarID)
	fbClient := facebook.NewClient(logger, cfg.FacebookAccessToken, cfg.FacebookPixelID, cfg.FacebookTestEventCode)
	sheetsClient := sheets.NewClient(logger, cfg.SheetsWebhookURL, cfg.SheetsSheetName)
	crioClient := crio.NewClient(logger, cfg.CrioFormID)
	geoChain := geoip.NewChain(logger, geoResolvers(cfg)...)

	dispatcher := tasks.NewDispatcher(logger, 30*time.Second)
	limiter := ratelimit.NewLimiter(time.Minute, 20)

	// Initialize services
	submissionService := services.NewLeadSubmissionService(
		crmClient,
		geoChain,
		sheetsClient,
		crioClient,
		dispatcher,
		cfg,
		logger,
	)
	trackingService := services.NewTrackingService(fbClient, cfg, logger)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())

	// Initialize handlers
	handlers := api.NewHandlers(submissionService, trackingService, geoChain, crmClient, limiter, cfg, logger)

	// Register routes
	router.POST("/api/submit-lead", handlers.SubmitLead)
	router.POST("/api/tracking/lead", handlers.TrackLead)
	router.POST("/api/tracking/pageview", handlers.TrackPageView)
	router.POST("/api/tracking/conversion", handlers.TrackConversion)
	router.GET("/api/geolocate", handlers.Geolocate)
	router.POST("/api/geolocate", handlers.GeolocateProbe)
	router.POST("/api/booking-link", handlers.GenerateBookingLink)
	router.POST("/api/leads", handlers.ReceiveLead)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// Let detached notifications (sheets, CRIO) finish before exiting
	if err := dispatcher.Wait(ctx); err != nil {
		logger.Warn("background tasks did not drain", zap.Error(err))
	}

	logger.Info("server shutdown complete")
}

// geoResolvers builds the provider chain in priority order, skipping
// providers without credentials. freeipapi needs no key and always runs last.
func geoResolvers(cfg *config.Config) []geoip.Resolver {
	resolvers := make([]geoip.Resolver, 0, 3)
	if cfg.IPInfoToken != "" {
		resolvers = append(resolvers, geoip.NewIPInfoResolver(cfg.IPInfoToken))
	}
	if cfg.IPGeolocationAPIKey != "" {
		resolvers = append(resolvers, geoip.NewIPGeolocationResolver(cfg.IPGeolocationAPIKey))
	}
	resolvers = append(resolvers, geoip.NewFreeIPAPIResolver())
	return resolvers
}
