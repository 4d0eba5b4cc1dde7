package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

func RegisterExpenseRoutes(router *gin.RouterGroup, deps *Deps) {
	router.GET("", listExpenses(deps))
	router.POST("", createExpense(deps))
	router.PUT("/:id", updateExpense(deps))
	router.DELETE("/:id", deleteExpense(deps))
}

func listExpenses(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := deps.DB.Order("date DESC")
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
				return
			}
			q = q.Where("date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
				return
			}
			q = q.Where("date <= ?", t)
		}

		var expenses []models.Expense
		if err := q.Find(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"expenses": expenses})
	}
}

type expenseRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Amount      int64     `json:"amount" binding:"required,min=1"`
}

func createExpense(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req expenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !models.ValidExpenseCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category"})
			return
		}

		expense := models.Expense{
			Date:        req.Date,
			Category:    req.Category,
			Description: req.Description,
			Amount:      req.Amount,
			CreatedBy:   actorFrom(c),
		}
		if err := deps.DB.Create(&expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"expense": expense})
	}
}

func updateExpense(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
			return
		}

		var req expenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !models.ValidExpenseCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category"})
			return
		}

		var expense models.Expense
		if err := deps.DB.First(&expense, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}

		expense.Date = req.Date
		expense.Category = req.Category
		expense.Description = req.Description
		expense.Amount = req.Amount
		if err := deps.DB.Save(&expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"expense": expense})
	}
}

func deleteExpense(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
			return
		}

		res := deps.DB.Delete(&models.Expense{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
	}
}
