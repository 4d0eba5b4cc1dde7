package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/clarinovist/ceritakita-booking-sub001/config"
	"github.com/clarinovist/ceritakita-booking-sub001/database"
	"github.com/clarinovist/ceritakita-booking-sub001/jobs"
	"github.com/clarinovist/ceritakita-booking-sub001/lockfile"
	"github.com/clarinovist/ceritakita-booking-sub001/routes"
	"github.com/clarinovist/ceritakita-booking-sub001/services"
	ws "github.com/clarinovist/ceritakita-booking-sub001/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	logger, err := newLogger(config.AppConfig.Server.GinMode)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.New(&config.AppConfig.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(db)

	// Advisory file locks around booking writes
	locks, err := lockfile.New(
		config.AppConfig.Lock.Dir,
		config.AppConfig.Lock.Timeout,
		config.AppConfig.Lock.PollInterval,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize lock directory", zap.Error(err))
	}

	// One-off maintenance commands, triggered by environment flags
	if os.Getenv("SEED_DEFAULTS") == "true" {
		if err := seedDefaults(db, logger); err != nil {
			logger.Fatal("Seeding failed", zap.Error(err))
		}
	}
	if os.Getenv("MIGRATE_PROOFS") == "true" {
		if err := migrateProofFiles(db, config.AppConfig.Upload.ProofDir, logger); err != nil {
			logger.Fatal("Proof migration failed", zap.Error(err))
		}
	}

	// Services
	coupons := services.NewCouponService(db, logger)
	bookings := services.NewBookingService(db, locks, coupons, logger)

	// WebSocket hub for the dashboard event feed
	hub := ws.NewHub(logger)
	go hub.Run()

	// Background stale-lock sweep
	cleanupJob := jobs.NewLockCleanupJob(locks, config.AppConfig.Lock.CleanupInterval, logger)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getEnvOrDefault("CORS_ORIGIN", "*")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	routes.Register(router, &routes.Deps{
		DB:       db,
		Bookings: bookings,
		Coupons:  coupons,
		Hub:      hub,
		Log:      logger,
	})

	port := config.AppConfig.Server.Port
	logger.Info("Server starting", zap.String("port", port))
	if err := router.Run("0.0.0.0:" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
