package services

import (
	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

// FinanceSummary is the derived payment state of a booking.
type FinanceSummary struct {
	Total     int64 `json:"total"`
	Paid      int64 `json:"paid"`
	Balance   int64 `json:"balance"`
	IsPaidOff bool  `json:"is_paid_off"`
}

// CalculateFinance sums the booking's payment ledger. A booking is paid off
// when its balance is zero or negative and its total is positive; a
// zero-total booking is never reported as paid off.
func CalculateFinance(b *models.Booking) FinanceSummary {
	var paid int64
	for _, p := range b.Payments {
		paid += p.Amount
	}
	balance := b.TotalPrice - paid
	return FinanceSummary{
		Total:     b.TotalPrice,
		Paid:      paid,
		Balance:   balance,
		IsPaidOff: balance <= 0 && b.TotalPrice > 0,
	}
}

// PriceBreakdown decomposes a booking's total price. IsReconstructed marks a
// best-effort reconstruction for legacy records: the original base-price and
// discount split is not recoverable, so those components are zero and only
// the addon total is rebuilt from the snapshot rows.
type PriceBreakdown struct {
	ServiceBasePrice int64  `json:"service_base_price"`
	BaseDiscount     int64  `json:"base_discount"`
	AddonsTotal      int64  `json:"addons_total"`
	CouponDiscount   int64  `json:"coupon_discount"`
	CouponCode       string `json:"coupon_code,omitempty"`
	IsReconstructed  bool   `json:"is_reconstructed"`
}

// GetOrReconstructBreakdown returns the stored breakdown for new-format
// bookings, or reconstructs one for legacy bookings that predate the
// breakdown columns. A booking counts as new-format when service_base_price
// is present; the booking-creation flow always writes it.
func GetOrReconstructBreakdown(b *models.Booking) PriceBreakdown {
	if b.ServiceBasePrice != nil {
		bd := PriceBreakdown{
			ServiceBasePrice: *b.ServiceBasePrice,
			IsReconstructed:  false,
		}
		if b.BaseDiscount != nil {
			bd.BaseDiscount = *b.BaseDiscount
		}
		if b.AddonsTotal != nil {
			bd.AddonsTotal = *b.AddonsTotal
		}
		if b.CouponDiscount != nil {
			bd.CouponDiscount = *b.CouponDiscount
		}
		if b.CouponCode != nil {
			bd.CouponCode = *b.CouponCode
		}
		return bd
	}

	var addonsTotal int64
	for _, a := range b.Addons {
		addonsTotal += int64(a.Quantity) * a.PriceAtBooking
	}
	return PriceBreakdown{
		AddonsTotal:     addonsTotal,
		IsReconstructed: true,
	}
}
