package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bossppp/cozy-hotel-bookings/controllers"
	"github.com/Bossppp/cozy-hotel-bookings/middleware"
	"github.com/Bossppp/cozy-hotel-bookings/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controllers into the versioned API.
func SetupRouter(
	ac *controllers.AuthController,
	hc *controllers.HotelController,
	bc *controllers.BookingController,
	authSvc *services.AuthService,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Metrics())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(authSvc)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
			auth.POST("/logout", requireAuth, ac.Logout)
			auth.GET("/me", requireAuth, ac.Me)
			auth.PUT("/updatedetails", requireAuth, ac.UpdateDetails)
		}

		hotels := api.Group("/hotels")
		{
			hotels.GET("", hc.GetHotels)
			hotels.GET("/:id", hc.GetHotelByID)
			hotels.POST("", requireAuth, requireAdmin, hc.CreateHotel)
			hotels.PUT("/:id", requireAuth, requireAdmin, hc.UpdateHotel)
			hotels.DELETE("/:id", requireAuth, requireAdmin, hc.DeleteHotel)
		}

		bookings := api.Group("/bookings")
		bookings.Use(requireAuth)
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.CreateBooking)

			// fixed segment must come before /:id
			bookings.GET("/export", requireAdmin, bc.ExportBookings)

			bookings.DELETE("/:id", bc.CancelBooking)
		}
	}

	return r
}
