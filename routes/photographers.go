package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

func RegisterPhotographerRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("", listPhotographers(deps))
	router.POST("", createPhotographer(deps))
	router.PUT("/:id", updatePhotographer(deps))
	router.DELETE("/:id", deletePhotographer(deps))
}

func listPhotographers(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := deps.DB.Order("name ASC")
		if c.Query("active") == "true" {
			q = q.Where("is_active = ?", true)
		}
		var photographers []models.Photographer
		if err := q.Find(&photographers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch photographers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"photographers": photographers})
	}
}

type photographerRequest struct {
	Name      string  `json:"name" binding:"required"`
	Phone     *string `json:"phone"`
	Specialty *string `json:"specialty"`
	IsActive  *bool   `json:"is_active"`
}

func createPhotographer(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req photographerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		p := models.Photographer{
			Name:      req.Name,
			Phone:     req.Phone,
			Specialty: req.Specialty,
			IsActive:  true,
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if err := deps.DB.Create(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create photographer"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"photographer": p})
	}
}

func updatePhotographer(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photographer ID"})
			return
		}

		var req photographerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var p models.Photographer
		if err := deps.DB.First(&p, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Photographer not found"})
			return
		}

		p.Name = req.Name
		p.Phone = req.Phone
		p.Specialty = req.Specialty
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if err := deps.DB.Save(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update photographer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"photographer": p})
	}
}

// deletePhotographer removes the photographer and detaches them from any
// bookings in the same transaction, so bookings are never deleted along with
// their photographer.
func deletePhotographer(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photographer ID"})
			return
		}

		err = deps.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Booking{}).
				Where("photographer_id = ?", id).
				Update("photographer_id", nil).Error; err != nil {
				return err
			}
			res := tx.Delete(&models.Photographer{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Photographer not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete photographer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Photographer deleted successfully"})
	}
}
