package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clarinovist/ceritakita-booking-sub001/services"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints
func RegisterBookingRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("", listBookings(deps))
	router.POST("", createBooking(deps))
	router.GET("/availability", checkAvailability(deps))
	router.GET("/:id", getBooking(deps))
	router.PUT("/:id", updateBooking(deps))
	router.DELETE("/:id", deleteBooking(deps))
	router.PATCH("/:id/status", setBookingStatus(deps))
	router.POST("/:id/reschedule", rescheduleBooking(deps))
	router.PATCH("/:id/photographer", assignPhotographer(deps))
	router.GET("/:id/finance", getBookingFinance(deps))
	router.GET("/:id/breakdown", getBookingBreakdown(deps))
}

func listBookings(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := services.ListOptions{
			Status:   c.Query("status"),
			Category: c.Query("category"),
		}
		if pid := c.Query("photographer_id"); pid != "" {
			id, err := strconv.ParseUint(pid, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photographer_id"})
				return
			}
			opts.PhotographerID = uint(id)
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
				return
			}
			opts.From = t
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
				return
			}
			opts.To = t
		}

		bookings, err := deps.Bookings.List(opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
	}
}

func createBooking(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft services.BookingDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, err := deps.Bookings.Create(&draft, actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}

		deps.Hub.BookingEvent("booking_created", booking.ID, actorFrom(c), booking)
		c.JSON(http.StatusCreated, gin.H{"booking": booking})
	}
}

func getBooking(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := deps.Bookings.Get(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

func updateBooking(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd services.BookingUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, err := deps.Bookings.Update(c.Param("id"), &upd, actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}

		deps.Hub.BookingEvent("booking_updated", booking.ID, actorFrom(c), booking)
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

func deleteBooking(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := deps.Bookings.Delete(id, actorFrom(c)); err != nil {
			respondError(c, err)
			return
		}

		deps.Hub.BookingEvent("booking_deleted", id, actorFrom(c), nil)
		c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func setBookingStatus(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, err := deps.Bookings.SetStatus(c.Param("id"), req.Status, actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}

		deps.Hub.BookingEvent("booking_status_changed", booking.ID, actorFrom(c), gin.H{"status": booking.Status})
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

type rescheduleRequest struct {
	NewDate time.Time `json:"new_date" binding:"required"`
	Reason  *string   `json:"reason"`
}

func rescheduleBooking(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req rescheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, err := deps.Bookings.Reschedule(c.Param("id"), req.NewDate, req.Reason, actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}

		deps.Hub.BookingEvent("booking_rescheduled", booking.ID, actorFrom(c), gin.H{
			"new_date": booking.BookingDate,
		})
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

type assignPhotographerRequest struct {
	PhotographerID *uint `json:"photographer_id"`
}

func assignPhotographer(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignPhotographerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, err := deps.Bookings.AssignPhotographer(c.Param("id"), req.PhotographerID, actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

func getBookingFinance(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := deps.Bookings.Get(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"finance": services.CalculateFinance(booking)})
	}
}

func getBookingBreakdown(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := deps.Bookings.Get(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"breakdown": services.GetOrReconstructBreakdown(booking)})
	}
}

func checkAvailability(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dateStr := c.Query("date")
		if dateStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
			return
		}
		slot, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected RFC3339"})
			return
		}

		available, conflictID, err := deps.Bookings.CheckSlotAvailable(slot, c.Query("exclude"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"available":      available,
			"conflicting_id": conflictID,
		})
	}
}
