package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Bossppp/cozy-hotel-bookings/cache"
	"github.com/Bossppp/cozy-hotel-bookings/config"
	"github.com/Bossppp/cozy-hotel-bookings/controllers"
	"github.com/Bossppp/cozy-hotel-bookings/metrics"
	"github.com/Bossppp/cozy-hotel-bookings/routes"
	"github.com/Bossppp/cozy-hotel-bookings/services"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

func buildCacheStore() cache.Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️  REDIS_ADDR not set; using in-memory cache store")
		return cache.NewMemoryStore()
	}

	db, _ := strconv.Atoi(utils.EnvOrDefault("REDIS_DB", "0"))
	client := cache.NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := cache.NewRedisStore(ctx, client)
	if err != nil {
		log.Printf("⚠️  Redis unavailable (%v); falling back to in-memory cache store", err)
		return cache.NewMemoryStore()
	}
	log.Printf("✅ Redis cache connected at %s", addr)
	return store
}

func sessionTTL() time.Duration {
	raw := utils.EnvOrDefault("SESSION_TTL_HOURS", "24")
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	metrics.Register()

	// Connect database (config.ConnectDatabase should set config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied")

	store := buildCacheStore()

	// Initialize services
	authService := services.NewAuthService(db, sessionTTL())
	hotelService := services.NewHotelService(db, store)
	bookingService := services.NewBookingService(db, store)
	exportService := services.NewExportService(bookingService)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	hotelController := controllers.NewHotelController(hotelService)
	bookingController := controllers.NewBookingController(bookingService, exportService)

	// Build router
	router := routes.SetupRouter(authController, hotelController, bookingController, authService)

	// Port from env (prefer), fallback to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	if closer, ok := store.(*cache.RedisStore); ok {
		if err := closer.Close(); err != nil {
			log.Printf("warning: failed to close Redis client: %v", err)
		}
	}

	log.Println("✅ Server stopped gracefully")
}
