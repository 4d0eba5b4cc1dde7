package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
	"github.com/clarinovist/ceritakita-booking-sub001/types"
)

// CouponService validates discount codes and records redemptions.
type CouponService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewCouponService(db *gorm.DB, log *zap.Logger) *CouponService {
	return &CouponService{db: db, log: log, now: time.Now}
}

// CouponValidation is the user-facing outcome of a validation attempt. A
// rejected code is not a system fault: Valid is false and Error carries the
// reason to show the operator.
type CouponValidation struct {
	Valid          bool           `json:"valid"`
	Coupon         *models.Coupon `json:"coupon,omitempty"`
	DiscountAmount int64          `json:"discount_amount,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Validate checks a code against its activity flag, validity window, usage
// cap and minimum purchase, then computes the discount for orderTotal. The
// returned error is non-nil only for persistence failures.
func (s *CouponService) Validate(code string, orderTotal int64) (*CouponValidation, error) {
	return s.ValidateWith(s.db, code, orderTotal)
}

// ValidateWith is Validate running against a caller-supplied handle, so the
// booking-creation flow can validate inside its own transaction.
func (s *CouponService) ValidateWith(tx *gorm.DB, code string, orderTotal int64) (*CouponValidation, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return &CouponValidation{Error: "coupon code is required"}, nil
	}

	var coupon models.Coupon
	if err := tx.Where("code = ?", normalized).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CouponValidation{Error: "coupon code not found"}, nil
		}
		return nil, &types.DatabaseError{Op: "validate coupon", Err: err}
	}

	now := s.now()
	if !coupon.IsActive {
		return &CouponValidation{Error: "coupon is no longer active"}, nil
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return &CouponValidation{Error: "coupon is not valid yet"}, nil
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return &CouponValidation{Error: "coupon has expired"}, nil
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return &CouponValidation{Error: "coupon usage limit has been reached"}, nil
	}
	if coupon.MinPurchase != nil && orderTotal < *coupon.MinPurchase {
		return &CouponValidation{Error: "order total is below the coupon's minimum purchase"}, nil
	}

	discount := computeDiscount(&coupon, orderTotal)
	return &CouponValidation{
		Valid:          true,
		Coupon:         &coupon,
		DiscountAmount: discount,
	}, nil
}

// computeDiscount applies the coupon's type and clamps: a percentage discount
// never exceeds max_discount when set, and no discount exceeds the order
// total or goes negative.
func computeDiscount(coupon *models.Coupon, orderTotal int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		discount = orderTotal * coupon.DiscountValue / 100
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
	case models.DiscountTypeFixed:
		discount = coupon.DiscountValue
	}
	if discount > orderTotal {
		discount = orderTotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// RecordUsage appends a redemption row and increments the coupon's usage
// count in one transaction.
func (s *CouponService) RecordUsage(couponID uint, bookingID string, discountAmount, orderTotal int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.RecordUsageWith(tx, couponID, bookingID, discountAmount, orderTotal)
	})
}

// RecordUsageWith performs the check-and-increment inside the caller's
// transaction. The increment is conditional on the usage limit so that two
// concurrent redemptions cannot push usage_count past usage_limit: the loser
// matches zero rows and fails validation.
func (s *CouponService) RecordUsageWith(tx *gorm.DB, couponID uint, bookingID string, discountAmount, orderTotal int64) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", couponID).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return &types.DatabaseError{Op: "record coupon usage", BookingID: bookingID, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return types.NewValidationError("coupon usage limit has been reached")
	}

	usage := models.CouponUsage{
		CouponID:       couponID,
		BookingID:      bookingID,
		DiscountAmount: discountAmount,
		OrderTotal:     orderTotal,
		UsedAt:         s.now(),
	}
	if err := tx.Create(&usage).Error; err != nil {
		return &types.DatabaseError{Op: "record coupon usage", BookingID: bookingID, Err: err}
	}

	s.log.Info("coupon redeemed",
		zap.Uint("coupon_id", couponID),
		zap.String("booking_id", bookingID),
		zap.Int64("discount", discountAmount))
	return nil
}

// NormalizeCouponCode uppercases and trims a code; lookups are
// case-insensitive because codes are stored normalized.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
