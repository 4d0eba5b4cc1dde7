package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

func RegisterLeadRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("", listLeads(deps))
	router.POST("", createLead(deps))
	router.PUT("/:id", updateLead(deps))
	router.PATCH("/:id/status", setLeadStatus(deps))
	router.DELETE("/:id", deleteLead(deps))
}

func listLeads(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := deps.DB.Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", models.NormalizeLeadStatus(status))
		}
		var leads []models.Lead
		if err := q.Find(&leads).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"leads": leads})
	}
}

type leadRequest struct {
	Name     string `json:"name" binding:"required"`
	Whatsapp string `json:"whatsapp" binding:"required"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

func createLead(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		lead := models.Lead{
			Name:     req.Name,
			Whatsapp: req.Whatsapp,
			Category: req.Category,
			Status:   models.LeadStatusNew,
			Notes:    req.Notes,
		}
		if err := deps.DB.Create(&lead).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"lead": lead})
	}
}

func updateLead(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID"})
			return
		}

		var req leadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var lead models.Lead
		if err := deps.DB.First(&lead, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}

		lead.Name = req.Name
		lead.Whatsapp = req.Whatsapp
		lead.Category = req.Category
		lead.Notes = req.Notes
		if err := deps.DB.Save(&lead).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lead": lead})
	}
}

type leadStatusRequest struct {
	Status    string  `json:"status" binding:"required"`
	BookingID *string `json:"booking_id"`
}

// setLeadStatus moves a lead through the pipeline. Marking a lead converted
// may link it to the booking that came out of it.
func setLeadStatus(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID"})
			return
		}

		var req leadStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var lead models.Lead
		if err := deps.DB.First(&lead, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}

		lead.Status = models.NormalizeLeadStatus(req.Status)
		if lead.Status == models.LeadStatusConverted && req.BookingID != nil {
			if err := deps.DB.First(&models.Booking{}, "id = ?", *req.BookingID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Linked booking does not exist"})
				return
			}
			lead.BookingID = req.BookingID
		}
		if err := deps.DB.Save(&lead).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lead": lead})
	}
}

func deleteLead(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID"})
			return
		}

		res := deps.DB.Delete(&models.Lead{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lead"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
	}
}
