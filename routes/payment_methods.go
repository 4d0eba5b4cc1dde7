package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

func RegisterPaymentMethodRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("", listPaymentMethods(deps))
	router.POST("", createPaymentMethod(deps))
	router.PUT("/:id", updatePaymentMethod(deps))
	router.DELETE("/:id", deletePaymentMethod(deps))
}

func listPaymentMethods(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := deps.DB.Order("sort_order ASC, id ASC")
		if c.Query("active") == "true" {
			q = q.Where("is_active = ?", true)
		}
		var methods []models.PaymentMethod
		if err := q.Find(&methods).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
	}
}

type paymentMethodRequest struct {
	Name          string `json:"name" binding:"required"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IsActive      *bool  `json:"is_active"`
	SortOrder     int    `json:"sort_order"`
}

func createPaymentMethod(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		method := models.PaymentMethod{
			Name:          req.Name,
			AccountName:   req.AccountName,
			AccountNumber: req.AccountNumber,
			IsActive:      true,
			SortOrder:     req.SortOrder,
		}
		if req.IsActive != nil {
			method.IsActive = *req.IsActive
		}
		if err := deps.DB.Create(&method).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment method"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"payment_method": method})
	}
}

func updatePaymentMethod(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method ID"})
			return
		}

		var req paymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var method models.PaymentMethod
		if err := deps.DB.First(&method, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
			return
		}

		method.Name = req.Name
		method.AccountName = req.AccountName
		method.AccountNumber = req.AccountNumber
		method.SortOrder = req.SortOrder
		if req.IsActive != nil {
			method.IsActive = *req.IsActive
		}
		if err := deps.DB.Save(&method).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment method"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment_method": method})
	}
}

func deletePaymentMethod(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method ID"})
			return
		}

		res := deps.DB.Delete(&models.PaymentMethod{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment method"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted successfully"})
	}
}
