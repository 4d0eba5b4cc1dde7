package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/middleware"
	"github.com/clarinovist/ceritakita-booking-sub001/models"
	"github.com/clarinovist/ceritakita-booking-sub001/services"
	ws "github.com/clarinovist/ceritakita-booking-sub001/websocket"
)

// Deps bundles what the handlers need. Everything is passed in explicitly;
// the routes package holds no globals.
type Deps struct {
	DB       *gorm.DB
	Bookings *services.BookingService
	Coupons  *services.CouponService
	Hub      *ws.Hub
	Log      *zap.Logger
}

// Register wires all console routes onto the router.
func Register(router *gin.Engine, deps *Deps) {
	api := router.Group("/api/v1")

	// Auth routes (no authentication required)
	authRoutes := api.Group("/auth")
	RegisterAuthRoutes(authRoutes, deps)

	// Dashboard event feed; token comes in as a query parameter
	api.GET("/ws/events", ws.EventsHandler(deps.Hub, deps.DB))

	// Everything else requires a logged-in console user
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.DB))
	{
		RegisterBookingRoutes(protected.Group("/bookings"), deps)
		RegisterPhotographerRoutes(protected.Group("/photographers"), deps)
		RegisterAddonRoutes(protected.Group("/addons"), deps)
		RegisterCouponRoutes(protected.Group("/coupons"), deps)
		RegisterExpenseRoutes(protected.Group("/expenses"), deps)
		RegisterPaymentMethodRoutes(protected.Group("/payment-methods"), deps)
		RegisterLeadRoutes(protected.Group("/leads"), deps)
		RegisterDashboardRoutes(protected.Group("/dashboard"), deps)

		// User administration is admin-only
		admin := protected.Group("/users")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		RegisterUserRoutes(admin, deps)
	}
}
