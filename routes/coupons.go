package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
	"github.com/clarinovist/ceritakita-booking-sub001/services"
)

func RegisterCouponRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("", listCoupons(deps))
	router.POST("", createCoupon(deps))
	router.POST("/validate", validateCoupon(deps))
	router.PUT("/:id", updateCoupon(deps))
	router.DELETE("/:id", deleteCoupon(deps))
	router.GET("/:id/usages", listCouponUsages(deps))
}

func listCoupons(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := deps.DB.Order("created_at DESC").Find(&coupons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}

type couponRequest struct {
	Code          string     `json:"code" binding:"required"`
	DiscountType  string     `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue int64      `json:"discount_value" binding:"required,min=1"`
	MinPurchase   *int64     `json:"min_purchase"`
	MaxDiscount   *int64     `json:"max_discount"`
	UsageLimit    *int       `json:"usage_limit"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	IsActive      *bool      `json:"is_active"`
}

func createCoupon(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		coupon := models.Coupon{
			Code:          services.NormalizeCouponCode(req.Code),
			DiscountType:  req.DiscountType,
			DiscountValue: req.DiscountValue,
			MinPurchase:   req.MinPurchase,
			MaxDiscount:   req.MaxDiscount,
			UsageLimit:    req.UsageLimit,
			ValidFrom:     req.ValidFrom,
			ValidUntil:    req.ValidUntil,
			IsActive:      true,
		}
		if req.IsActive != nil {
			coupon.IsActive = *req.IsActive
		}
		if err := deps.DB.Create(&coupon).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
	}
}

func updateCoupon(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
			return
		}

		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var coupon models.Coupon
		if err := deps.DB.First(&coupon, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}

		coupon.Code = services.NormalizeCouponCode(req.Code)
		coupon.DiscountType = req.DiscountType
		coupon.DiscountValue = req.DiscountValue
		coupon.MinPurchase = req.MinPurchase
		coupon.MaxDiscount = req.MaxDiscount
		coupon.UsageLimit = req.UsageLimit
		coupon.ValidFrom = req.ValidFrom
		coupon.ValidUntil = req.ValidUntil
		if req.IsActive != nil {
			coupon.IsActive = *req.IsActive
		}
		if err := deps.DB.Save(&coupon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"coupon": coupon})
	}
}

func deleteCoupon(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
			return
		}

		// Usage records stay; they are the redemption audit trail.
		res := deps.DB.Delete(&models.Coupon{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
	}
}

func listCouponUsages(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
			return
		}

		var usages []models.CouponUsage
		if err := deps.DB.Where("coupon_id = ?", id).
			Order("used_at DESC").Find(&usages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupon usages"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"usages": usages})
	}
}

type validateCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	OrderTotal int64  `json:"order_total" binding:"min=0"`
}

// validateCoupon is advisory: it tells the console what discount a code would
// give right now. The authoritative check-and-increment happens when the
// booking is created.
func validateCoupon(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := deps.Coupons.Validate(req.Code, req.OrderTotal)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"validation": result})
	}
}
