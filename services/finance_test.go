package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

func booking(total int64, payments ...int64) *models.Booking {
	b := &models.Booking{TotalPrice: total}
	for _, amount := range payments {
		b.Payments = append(b.Payments, models.Payment{Amount: amount})
	}
	return b
}

func TestCalculateFinancePartiallyPaid(t *testing.T) {
	got := CalculateFinance(booking(1_000_000, 400_000))

	assert.Equal(t, int64(1_000_000), got.Total)
	assert.Equal(t, int64(400_000), got.Paid)
	assert.Equal(t, int64(600_000), got.Balance)
	assert.False(t, got.IsPaidOff)
}

func TestCalculateFinancePaidOff(t *testing.T) {
	got := CalculateFinance(booking(1_000_000, 400_000, 600_000))

	assert.Equal(t, int64(1_000_000), got.Paid)
	assert.Zero(t, got.Balance)
	assert.True(t, got.IsPaidOff)
}

func TestCalculateFinanceOverpaid(t *testing.T) {
	got := CalculateFinance(booking(1_000_000, 1_200_000))

	assert.Equal(t, int64(-200_000), got.Balance)
	assert.True(t, got.IsPaidOff)
}

func TestCalculateFinanceZeroTotalNeverPaidOff(t *testing.T) {
	assert.False(t, CalculateFinance(booking(0)).IsPaidOff)
	assert.False(t, CalculateFinance(booking(0, 100_000)).IsPaidOff)
}

func TestCalculateFinanceNoPayments(t *testing.T) {
	got := CalculateFinance(booking(500_000))

	assert.Zero(t, got.Paid)
	assert.Equal(t, int64(500_000), got.Balance)
	assert.False(t, got.IsPaidOff)
}

func ptr[T any](v T) *T { return &v }

func TestBreakdownExplicit(t *testing.T) {
	b := &models.Booking{
		TotalPrice:       1_150_000,
		ServiceBasePrice: ptr(int64(1_000_000)),
		BaseDiscount:     ptr(int64(100_000)),
		AddonsTotal:      ptr(int64(300_000)),
		CouponDiscount:   ptr(int64(50_000)),
		CouponCode:       ptr("WELCOME10"),
	}

	got := GetOrReconstructBreakdown(b)
	assert.False(t, got.IsReconstructed)
	assert.Equal(t, int64(1_000_000), got.ServiceBasePrice)
	assert.Equal(t, int64(100_000), got.BaseDiscount)
	assert.Equal(t, int64(300_000), got.AddonsTotal)
	assert.Equal(t, int64(50_000), got.CouponDiscount)
	assert.Equal(t, "WELCOME10", got.CouponCode)
}

func TestBreakdownReconstructedForLegacyBooking(t *testing.T) {
	// Legacy record: no breakdown columns, but addon snapshots survive.
	b := &models.Booking{
		TotalPrice: 800_000,
		Addons: []models.BookingAddon{
			{Quantity: 2, PriceAtBooking: 100_000},
			{Quantity: 1, PriceAtBooking: 50_000},
		},
	}

	got := GetOrReconstructBreakdown(b)
	assert.True(t, got.IsReconstructed)
	assert.Equal(t, int64(250_000), got.AddonsTotal)
	assert.Zero(t, got.ServiceBasePrice)
	assert.Zero(t, got.BaseDiscount)
	assert.Zero(t, got.CouponDiscount)
	assert.Empty(t, got.CouponCode)
}

func TestBreakdownZeroBasePriceIsStillExplicit(t *testing.T) {
	// A stored zero is a real value, not a legacy marker.
	b := &models.Booking{
		TotalPrice:       100_000,
		ServiceBasePrice: ptr(int64(0)),
		AddonsTotal:      ptr(int64(100_000)),
	}

	got := GetOrReconstructBreakdown(b)
	assert.False(t, got.IsReconstructed)
	assert.Equal(t, int64(100_000), got.AddonsTotal)
}
