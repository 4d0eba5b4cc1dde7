package models

import "time"

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a discount code. Codes are case-insensitive: they are stored
// uppercased and lookups uppercase the input. For percentage coupons
// DiscountValue is the percentage and MaxDiscount caps the computed amount;
// for fixed coupons DiscountValue is the amount itself.
type Coupon struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Code          string     `json:"code" gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountType  string     `json:"discount_type" gorm:"type:varchar(20);not null"`
	DiscountValue int64      `json:"discount_value" gorm:"not null"`
	MinPurchase   *int64     `json:"min_purchase"`
	MaxDiscount   *int64     `json:"max_discount"`
	UsageLimit    *int       `json:"usage_limit"`
	UsageCount    int        `json:"usage_count" gorm:"not null;default:0"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// CouponUsage is an append-only audit record of a single redemption.
type CouponUsage struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CouponID       uint      `json:"coupon_id" gorm:"not null;index"`
	BookingID      string    `json:"booking_id" gorm:"type:varchar(36);not null"`
	DiscountAmount int64     `json:"discount_amount" gorm:"not null"`
	OrderTotal     int64     `json:"order_total" gorm:"not null"`
	UsedAt         time.Time `json:"used_at" gorm:"not null"`
}

func (CouponUsage) TableName() string {
	return "coupon_usages"
}
