package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

func RegisterAddonRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("", listAddons(deps))
	router.POST("", createAddon(deps))
	router.PUT("/:id", updateAddon(deps))
	router.DELETE("/:id", deleteAddon(deps))
}

func listAddons(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := deps.DB.Order("name ASC")
		if c.Query("active") == "true" {
			q = q.Where("is_active = ?", true)
		}
		var addons []models.Addon
		if err := q.Find(&addons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addons"})
			return
		}

		// Optionally narrow the catalog to addons usable for one category
		if category := c.Query("category"); category != "" {
			filtered := addons[:0]
			for i := range addons {
				if addons[i].AppliesTo(category) {
					filtered = append(filtered, addons[i])
				}
			}
			addons = filtered
		}
		c.JSON(http.StatusOK, gin.H{"addons": addons})
	}
}

type addonRequest struct {
	Name       string   `json:"name" binding:"required"`
	Price      int64    `json:"price" binding:"min=0"`
	Categories []string `json:"categories"`
	IsActive   *bool    `json:"is_active"`
}

func createAddon(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		addon := models.Addon{
			Name:       req.Name,
			Price:      req.Price,
			Categories: models.StringList(req.Categories),
			IsActive:   true,
		}
		if req.IsActive != nil {
			addon.IsActive = *req.IsActive
		}
		if err := deps.DB.Create(&addon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create addon"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"addon": addon})
	}
}

func updateAddon(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid addon ID"})
			return
		}

		var req addonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var addon models.Addon
		if err := deps.DB.First(&addon, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Addon not found"})
			return
		}

		addon.Name = req.Name
		addon.Price = req.Price
		addon.Categories = models.StringList(req.Categories)
		if req.IsActive != nil {
			addon.IsActive = *req.IsActive
		}
		if err := deps.DB.Save(&addon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update addon"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"addon": addon})
	}
}

// deleteAddon deactivates rather than removes: existing bookings keep their
// price snapshots either way, but a soft delete keeps the catalog history
// visible in the console.
func deleteAddon(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid addon ID"})
			return
		}

		res := deps.DB.Model(&models.Addon{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete addon"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Addon not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Addon deactivated successfully"})
	}
}
