package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

func RegisterDashboardRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("/stats", dashboardStats(deps))
}

func dashboardStats(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var from, to time.Time
		if v := c.Query("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
				return
			}
			from = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
				return
			}
			to = t
		}

		ranged := func(q *gorm.DB, col string) *gorm.DB {
			if !from.IsZero() {
				q = q.Where(col+" >= ?", from)
			}
			if !to.IsZero() {
				q = q.Where(col+" <= ?", to)
			}
			return q
		}

		// Revenue is money actually received, not booking totals.
		var revenue int64
		if err := ranged(deps.DB.Model(&models.Payment{}), "date").
			Select("COALESCE(SUM(amount), 0)").Scan(&revenue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}

		var expenses int64
		if err := ranged(deps.DB.Model(&models.Expense{}), "date").
			Select("COALESCE(SUM(amount), 0)").Scan(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}

		// Outstanding balance across non-cancelled bookings, ignoring the
		// date range: an unpaid booking is outstanding whenever it was made.
		type balanceRow struct {
			Total int64
			Paid  int64
		}
		var bal balanceRow
		if err := deps.DB.Model(&models.Booking{}).
			Select("COALESCE(SUM(bookings.total_price), 0) AS total, COALESCE(SUM(p.paid), 0) AS paid").
			Joins("LEFT JOIN (SELECT booking_id, SUM(amount) AS paid FROM payments GROUP BY booking_id) p ON p.booking_id = bookings.id").
			Where("bookings.status <> ?", models.StatusCancelled).
			Scan(&bal).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		outstanding := bal.Total - bal.Paid
		if outstanding < 0 {
			outstanding = 0
		}

		type statusCount struct {
			Status string
			Count  int64
		}
		var counts []statusCount
		if err := ranged(deps.DB.Model(&models.Booking{}), "booking_date").
			Select("status, COUNT(*) AS count").Group("status").
			Scan(&counts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		byStatus := make(map[string]int64, len(counts))
		for _, sc := range counts {
			byStatus[sc.Status] = sc.Count
		}

		var leadCount int64
		if err := deps.DB.Model(&models.Lead{}).
			Where("status NOT IN ?", []models.LeadStatus{models.LeadStatusConverted, models.LeadStatusLost}).
			Count(&leadCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"revenue":             revenue,
			"expenses":            expenses,
			"net":                 revenue - expenses,
			"outstanding_balance": outstanding,
			"bookings_by_status":  byStatus,
			"open_leads":          leadCount,
		})
	}
}
