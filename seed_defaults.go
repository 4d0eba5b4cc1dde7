package main

import (
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
	"github.com/clarinovist/ceritakita-booking-sub001/utils"
)

// seedDefaults creates the initial admin user and the default payment methods
// if they do not exist yet. Safe to run repeatedly.
func seedDefaults(db *gorm.DB, logger *zap.Logger) error {
	if err := seedAdminUser(db, logger); err != nil {
		return err
	}
	return seedPaymentMethods(db, logger)
}

func seedAdminUser(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
		logger.Warn("ADMIN_PASSWORD not set, using default password; change it immediately")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		FullName:     "Studio Admin",
		Username:     "admin",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("Seeded admin user", zap.String("username", admin.Username))
	return nil
}

func seedPaymentMethods(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&models.PaymentMethod{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	methods := []models.PaymentMethod{
		{Name: "BCA", AccountName: "CeritaKita Studio", AccountNumber: "1234567890", IsActive: true, SortOrder: 1},
		{Name: "Mandiri", AccountName: "CeritaKita Studio", AccountNumber: "0987654321", IsActive: true, SortOrder: 2},
		{Name: "GoPay", AccountName: "CeritaKita Studio", AccountNumber: "081234567890", IsActive: true, SortOrder: 3},
		{Name: "Cash", IsActive: true, SortOrder: 4},
	}
	if err := db.Create(&methods).Error; err != nil {
		return err
	}
	logger.Info("Seeded payment methods", zap.Int("count", len(methods)))
	return nil
}
