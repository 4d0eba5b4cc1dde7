package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
	"github.com/clarinovist/ceritakita-booking-sub001/types"
)

var sessionDate = time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC)

func TestCreateBooking(t *testing.T) {
	svc, db := newTestBookingService(t)
	addon := seedAddon(t, db, "Extra Album", 150_000)

	draft := validDraft(sessionDate)
	draft.TotalPrice = 1_300_000
	draft.BaseDiscount = 50_000
	draft.Payments = []PaymentDraft{{Date: sessionDate.AddDate(0, 0, -30), Amount: 300_000, Note: "DP"}}
	draft.Addons = []AddonSelection{{AddonID: addon.ID, Quantity: 2}}

	booking, err := svc.Create(draft, "desk")
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, models.StatusActive, booking.Status)
	assert.Equal(t, int64(1_300_000), booking.TotalPrice)
	require.NotNil(t, booking.AddonsTotal)
	assert.Equal(t, int64(300_000), *booking.AddonsTotal)

	require.Len(t, booking.Payments, 1)
	assert.Equal(t, int64(300_000), booking.Payments[0].Amount)

	// Addon line items snapshot the catalog name and price.
	require.Len(t, booking.Addons, 1)
	assert.Equal(t, "Extra Album", booking.Addons[0].NameAtBooking)
	assert.Equal(t, int64(150_000), booking.Addons[0].PriceAtBooking)
	assert.Equal(t, 2, booking.Addons[0].Quantity)

	var audits []models.AuditLog
	require.NoError(t, db.Where("booking_id = ?", booking.ID).Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, "create", audits[0].Action)
	assert.Equal(t, "desk", audits[0].Actor)
}

func TestCreateBookingRejectsInvalidDraft(t *testing.T) {
	svc, _ := newTestBookingService(t)

	draft := validDraft(sessionDate)
	draft.CustomerName = ""

	_, err := svc.Create(draft, "desk")
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestCreateBookingRejectsMissingPhotographer(t *testing.T) {
	svc, _ := newTestBookingService(t)

	draft := validDraft(sessionDate)
	draft.PhotographerID = ptr(uint(99))

	_, err := svc.Create(draft, "desk")
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "photographer", nf.Entity)
}

func TestCreateBookingRejectsInapplicableAddon(t *testing.T) {
	svc, db := newTestBookingService(t)
	addon := seedAddon(t, db, "Drone Footage", 500_000, "wedding")

	draft := validDraft(sessionDate)
	draft.CustomerCategory = "graduation"
	draft.Addons = []AddonSelection{{AddonID: addon.ID, Quantity: 1}}

	_, err := svc.Create(draft, "desk")
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestCreateBookingWithCoupon(t *testing.T) {
	svc, db := newTestBookingService(t)
	coupon := seedCoupon(t, db, models.Coupon{
		Code:          "WELCOME",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		UsageLimit:    ptr(1),
		IsActive:      true,
	})

	draft := validDraft(sessionDate)
	draft.CouponCode = "welcome"

	booking, err := svc.Create(draft, "desk")
	require.NoError(t, err)
	require.NotNil(t, booking.CouponCode)
	assert.Equal(t, "WELCOME", *booking.CouponCode)
	require.NotNil(t, booking.CouponDiscount)
	assert.Equal(t, int64(100_000), *booking.CouponDiscount)

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)

	// The limit is exhausted; a second booking with the same code fails and
	// nothing is persisted for it.
	draft2 := validDraft(sessionDate.Add(2 * time.Hour))
	draft2.CouponCode = "WELCOME"
	_, err = svc.Create(draft2, "desk")
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateBookingReplacesCollections(t *testing.T) {
	svc, db := newTestBookingService(t)
	album := seedAddon(t, db, "Album", 100_000)
	frame := seedAddon(t, db, "Frame", 75_000)

	draft := validDraft(sessionDate)
	draft.Payments = []PaymentDraft{{Date: sessionDate, Amount: 200_000}}
	draft.Addons = []AddonSelection{{AddonID: album.ID, Quantity: 1}}
	created, err := svc.Create(draft, "desk")
	require.NoError(t, err)

	upd := &BookingUpdate{
		CustomerName: ptr("Sinta Dewi"),
		Payments: &[]PaymentDraft{
			{Date: sessionDate, Amount: 500_000, Note: "replacement ledger"},
		},
		Addons: &[]AddonSelection{{AddonID: frame.ID, Quantity: 3}},
	}
	updated, err := svc.Update(created.ID, upd, "desk")
	require.NoError(t, err)

	assert.Equal(t, "Sinta Dewi", updated.CustomerName)

	// Old collections are gone, not merged.
	require.Len(t, updated.Payments, 1)
	assert.Equal(t, int64(500_000), updated.Payments[0].Amount)
	require.Len(t, updated.Addons, 1)
	assert.Equal(t, "Frame", updated.Addons[0].NameAtBooking)
	require.NotNil(t, updated.AddonsTotal)
	assert.Equal(t, int64(225_000), *updated.AddonsTotal)

	var audit models.AuditLog
	require.NoError(t, db.Where("booking_id = ? AND action = ?", created.ID, "update").First(&audit).Error)
	assert.Contains(t, audit.ChangedFields, "customer_name")
	assert.Contains(t, audit.ChangedFields, "payments")
	assert.Contains(t, audit.ChangedFields, "addons")
}

func TestUpdateLeavesUnsentFieldsAlone(t *testing.T) {
	svc, _ := newTestBookingService(t)
	created, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, &BookingUpdate{BookingNotes: ptr("bring props")}, "desk")
	require.NoError(t, err)

	assert.Equal(t, created.CustomerName, updated.CustomerName)
	assert.Equal(t, created.TotalPrice, updated.TotalPrice)
	assert.Equal(t, "bring props", updated.BookingNotes)
}

func TestUpdateRejectsNegativeTotal(t *testing.T) {
	svc, _ := newTestBookingService(t)
	created, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)

	_, err = svc.Update(created.ID, &BookingUpdate{TotalPrice: ptr(int64(-1))}, "desk")
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestBookingService(t)

	_, err := svc.Update("missing-id", &BookingUpdate{BookingNotes: ptr("x")}, "desk")
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestRescheduleAppendsHistory(t *testing.T) {
	svc, _ := newTestBookingService(t)
	created, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)

	newDate := sessionDate.AddDate(0, 0, 7)
	reason := "client request"
	rescheduled, err := svc.Reschedule(created.ID, newDate, &reason, "desk")
	require.NoError(t, err)

	assert.Equal(t, models.StatusRescheduled, rescheduled.Status)
	assert.True(t, rescheduled.BookingDate.Equal(newDate))

	require.Len(t, rescheduled.RescheduleHistory, 1)
	entry := rescheduled.RescheduleHistory[0]
	assert.True(t, entry.OldDate.Equal(sessionDate))
	assert.True(t, entry.NewDate.Equal(newDate))
	require.NotNil(t, entry.Reason)
	assert.Equal(t, "client request", *entry.Reason)

	// A second move appends rather than rewrites.
	finalDate := newDate.AddDate(0, 0, 1)
	again, err := svc.Reschedule(created.ID, finalDate, nil, "desk")
	require.NoError(t, err)
	require.Len(t, again.RescheduleHistory, 2)
	assert.True(t, again.RescheduleHistory[1].OldDate.Equal(newDate))
}

func TestRescheduleRejectsOccupiedSlot(t *testing.T) {
	svc, _ := newTestBookingService(t)

	first, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)

	otherDate := sessionDate.Add(3 * time.Hour)
	second, err := svc.Create(validDraft(otherDate), "desk")
	require.NoError(t, err)

	_, err = svc.Reschedule(second.ID, sessionDate, nil, "desk")
	var sc *types.SlotConflictError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, first.ID, sc.ConflictingID)
}

func TestRescheduleOntoCancelledSlotIsAllowed(t *testing.T) {
	svc, _ := newTestBookingService(t)

	first, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)
	_, err = svc.SetStatus(first.ID, "cancelled", "desk")
	require.NoError(t, err)

	second, err := svc.Create(validDraft(sessionDate.Add(3*time.Hour)), "desk")
	require.NoError(t, err)

	// Cancelled bookings do not hold their slot.
	_, err = svc.Reschedule(second.ID, sessionDate, nil, "desk")
	require.NoError(t, err)
}

func TestDeleteBookingRemovesChildren(t *testing.T) {
	svc, db := newTestBookingService(t)
	addon := seedAddon(t, db, "Album", 100_000)

	draft := validDraft(sessionDate)
	draft.Payments = []PaymentDraft{{Date: sessionDate, Amount: 100_000}}
	draft.Addons = []AddonSelection{{AddonID: addon.ID, Quantity: 1}}
	created, err := svc.Create(draft, "desk")
	require.NoError(t, err)
	_, err = svc.Reschedule(created.ID, sessionDate.AddDate(0, 0, 1), nil, "desk")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID, "desk"))

	_, err = svc.Get(created.ID)
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)

	for _, model := range []interface{}{&models.Payment{}, &models.BookingAddon{}, &models.RescheduleEntry{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("booking_id = ?", created.ID).Count(&count).Error)
		assert.Zero(t, count)
	}

	// The audit trail outlives the booking.
	var audits int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("booking_id = ?", created.ID).Count(&audits).Error)
	assert.NotZero(t, audits)
}

func TestCompletedBookingIsImmutable(t *testing.T) {
	svc, _ := newTestBookingService(t)
	created, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)
	_, err = svc.SetStatus(created.ID, "completed", "desk")
	require.NoError(t, err)

	var ve *types.ValidationError

	_, err = svc.Update(created.ID, &BookingUpdate{BookingNotes: ptr("x")}, "desk")
	require.ErrorAs(t, err, &ve)

	_, err = svc.Reschedule(created.ID, sessionDate.AddDate(0, 0, 1), nil, "desk")
	require.ErrorAs(t, err, &ve)

	err = svc.Delete(created.ID, "desk")
	require.ErrorAs(t, err, &ve)

	_, err = svc.SetStatus(created.ID, "active", "desk")
	require.ErrorAs(t, err, &ve)

	_, err = svc.AssignPhotographer(created.ID, nil, "desk")
	require.ErrorAs(t, err, &ve)

	// Setting Completed again is a no-op transition, not an error.
	_, err = svc.SetStatus(created.ID, "Completed", "desk")
	require.NoError(t, err)
}

func TestSetStatusNormalizesInput(t *testing.T) {
	svc, _ := newTestBookingService(t)
	created, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)

	updated, err := svc.SetStatus(created.ID, "canceled", "desk")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	updated, err = svc.SetStatus(created.ID, "nonsense", "desk")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)
}

func TestAssignAndClearPhotographer(t *testing.T) {
	svc, db := newTestBookingService(t)
	photographer := seedPhotographer(t, db, "Rizky")

	created, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)

	assigned, err := svc.AssignPhotographer(created.ID, &photographer.ID, "desk")
	require.NoError(t, err)
	require.NotNil(t, assigned.PhotographerID)
	assert.Equal(t, photographer.ID, *assigned.PhotographerID)
	require.NotNil(t, assigned.Photographer)
	assert.Equal(t, "Rizky", assigned.Photographer.Name)

	cleared, err := svc.AssignPhotographer(created.ID, nil, "desk")
	require.NoError(t, err)
	assert.Nil(t, cleared.PhotographerID)
}

func TestListFilters(t *testing.T) {
	svc, db := newTestBookingService(t)
	photographer := seedPhotographer(t, db, "Rizky")

	weddingDraft := validDraft(sessionDate)
	weddingDraft.PhotographerID = &photographer.ID
	wedding, err := svc.Create(weddingDraft, "desk")
	require.NoError(t, err)

	gradDraft := validDraft(sessionDate.AddDate(0, 1, 0))
	gradDraft.CustomerCategory = "graduation"
	grad, err := svc.Create(gradDraft, "desk")
	require.NoError(t, err)
	_, err = svc.SetStatus(grad.ID, "cancelled", "desk")
	require.NoError(t, err)

	byStatus, err := svc.List(ListOptions{Status: "canceled"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, grad.ID, byStatus[0].ID)

	byCategory, err := svc.List(ListOptions{Category: "wedding"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, wedding.ID, byCategory[0].ID)

	byPhotographer, err := svc.List(ListOptions{PhotographerID: photographer.ID})
	require.NoError(t, err)
	require.Len(t, byPhotographer, 1)

	byRange, err := svc.List(ListOptions{
		From: sessionDate.AddDate(0, 0, -1),
		To:   sessionDate.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	assert.Equal(t, wedding.ID, byRange[0].ID)

	all, err := svc.List(ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCheckSlotAvailable(t *testing.T) {
	svc, _ := newTestBookingService(t)

	created, err := svc.Create(validDraft(sessionDate), "desk")
	require.NoError(t, err)

	available, conflictID, err := svc.CheckSlotAvailable(sessionDate, "")
	require.NoError(t, err)
	assert.False(t, available)
	assert.Equal(t, created.ID, conflictID)

	// Excluding the holder itself frees the slot.
	available, _, err = svc.CheckSlotAvailable(sessionDate, created.ID)
	require.NoError(t, err)
	assert.True(t, available)

	available, _, err = svc.CheckSlotAvailable(sessionDate.Add(time.Hour), "")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestGetOrdersCollections(t *testing.T) {
	svc, _ := newTestBookingService(t)

	draft := validDraft(sessionDate)
	draft.Payments = []PaymentDraft{
		{Date: sessionDate.AddDate(0, 0, -10), Amount: 100_000},
		{Date: sessionDate.AddDate(0, 0, -30), Amount: 300_000},
	}
	created, err := svc.Create(draft, "desk")
	require.NoError(t, err)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.Payments, 2)
	assert.True(t, got.Payments[0].Date.Before(got.Payments[1].Date), "payments ordered by date")
}
