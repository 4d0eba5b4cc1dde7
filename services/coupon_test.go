package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
	"github.com/clarinovist/ceritakita-booking-sub001/types"
)

func newCouponService(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewCouponService(db, zap.NewNop()), db
}

func seedCoupon(t *testing.T, db *gorm.DB, c models.Coupon) *models.Coupon {
	t.Helper()
	if c.Code == "" {
		c.Code = "TESTCODE"
	}
	c.Code = NormalizeCouponCode(c.Code)
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func TestValidatePercentageWithCap(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{
		Code:          "SAVE20",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
		MaxDiscount:   ptr(int64(100_000)),
		IsActive:      true,
	})

	// 20% of 1,000,000 is 200,000 but the cap wins.
	got, err := svc.Validate("save20", 1_000_000)
	require.NoError(t, err)
	require.True(t, got.Valid, got.Error)
	assert.Equal(t, int64(100_000), got.DiscountAmount)

	// Below the cap the raw percentage applies.
	got, err = svc.Validate("SAVE20", 400_000)
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.Equal(t, int64(80_000), got.DiscountAmount)
}

func TestValidateFixedClampedToOrderTotal(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{
		Code:          "MINUS150",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 150_000,
		IsActive:      true,
	})

	got, err := svc.Validate("MINUS150", 100_000)
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.Equal(t, int64(100_000), got.DiscountAmount, "discount never exceeds order total")
}

func TestValidateUnknownCode(t *testing.T) {
	svc, _ := newCouponService(t)

	got, err := svc.Validate("NOPE", 100_000)
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Equal(t, "coupon code not found", got.Error)
}

func TestValidateInactive(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{
		Code:          "OLD",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		IsActive:      false,
	})

	got, err := svc.Validate("OLD", 100_000)
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Equal(t, "coupon is no longer active", got.Error)
}

func TestValidateWindow(t *testing.T) {
	svc, db := newCouponService(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupon(t, db, models.Coupon{
		Code:          "FUTURE",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		ValidFrom:     ptr(now.Add(24 * time.Hour)),
		IsActive:      true,
	})
	seedCoupon(t, db, models.Coupon{
		Code:          "PAST",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		ValidUntil:    ptr(now.Add(-24 * time.Hour)),
		IsActive:      true,
	})

	got, err := svc.Validate("FUTURE", 100_000)
	require.NoError(t, err)
	assert.Equal(t, "coupon is not valid yet", got.Error)

	got, err = svc.Validate("PAST", 100_000)
	require.NoError(t, err)
	assert.Equal(t, "coupon has expired", got.Error)
}

func TestValidateMinPurchase(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{
		Code:          "BIGSPEND",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 50_000,
		MinPurchase:   ptr(int64(500_000)),
		IsActive:      true,
	})

	got, err := svc.Validate("BIGSPEND", 499_999)
	require.NoError(t, err)
	assert.False(t, got.Valid)

	got, err = svc.Validate("BIGSPEND", 500_000)
	require.NoError(t, err)
	assert.True(t, got.Valid)
}

func TestValidateUsageLimitReached(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, models.Coupon{
		Code:          "LIMITED",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		UsageLimit:    ptr(2),
		UsageCount:    2,
		IsActive:      true,
	})

	got, err := svc.Validate("LIMITED", 100_000)
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Equal(t, "coupon usage limit has been reached", got.Error)
}

func TestRecordUsageIncrementsAndLogs(t *testing.T) {
	svc, db := newCouponService(t)
	coupon := seedCoupon(t, db, models.Coupon{
		Code:          "TRACKED",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		UsageLimit:    ptr(5),
		IsActive:      true,
	})

	require.NoError(t, svc.RecordUsage(coupon.ID, "booking-1", 10_000, 200_000))

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)

	var usages []models.CouponUsage
	require.NoError(t, db.Where("coupon_id = ?", coupon.ID).Find(&usages).Error)
	require.Len(t, usages, 1)
	assert.Equal(t, "booking-1", usages[0].BookingID)
	assert.Equal(t, int64(10_000), usages[0].DiscountAmount)
	assert.Equal(t, int64(200_000), usages[0].OrderTotal)
}

func TestRecordUsageStopsAtLimit(t *testing.T) {
	svc, db := newCouponService(t)
	coupon := seedCoupon(t, db, models.Coupon{
		Code:          "ONESHOT",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		UsageLimit:    ptr(1),
		IsActive:      true,
	})

	require.NoError(t, svc.RecordUsage(coupon.ID, "booking-1", 10_000, 200_000))

	// The second redemption loses the conditional update.
	err := svc.RecordUsage(coupon.ID, "booking-2", 10_000, 200_000)
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount, "count never passes the limit")
}

func TestRecordUsageUnlimited(t *testing.T) {
	svc, db := newCouponService(t)
	coupon := seedCoupon(t, db, models.Coupon{
		Code:          "FOREVER",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		IsActive:      true,
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordUsage(coupon.ID, "booking-x", 10_000, 200_000))
	}

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 3, reloaded.UsageCount)
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizeCouponCode("  save20 "))
	assert.Equal(t, "", NormalizeCouponCode("   "))
}
