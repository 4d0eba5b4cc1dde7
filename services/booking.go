package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/lockfile"
	"github.com/clarinovist/ceritakita-booking-sub001/models"
	"github.com/clarinovist/ceritakita-booking-sub001/types"
)

// BookingService owns the booking lifecycle: create, update, reschedule,
// delete, status changes and photographer assignment. Every write acquires
// the booking's advisory lock and runs inside one transaction, so two
// concurrent writers to the same booking serialize while writers to different
// bookings proceed in parallel.
type BookingService struct {
	db       *gorm.DB
	locks    *lockfile.Manager
	coupons  *CouponService
	validate *validator.Validate
	log      *zap.Logger
}

func NewBookingService(db *gorm.DB, locks *lockfile.Manager, coupons *CouponService, log *zap.Logger) *BookingService {
	return &BookingService{
		db:       db,
		locks:    locks,
		coupons:  coupons,
		validate: validator.New(),
		log:      log,
	}
}

// PaymentDraft is one ledger entry in a create or update request.
type PaymentDraft struct {
	Date          time.Time `json:"date" validate:"required"`
	Amount        int64     `json:"amount" validate:"gte=0"`
	Note          string    `json:"note"`
	ProofFilename *string   `json:"proof_filename"`
}

// AddonSelection picks an addon from the catalog; name and price are
// snapshotted from the catalog at write time, never taken from the request.
type AddonSelection struct {
	AddonID  uint `json:"addon_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gt=0"`
}

// BookingDraft is the input to Create.
type BookingDraft struct {
	CustomerName        string     `json:"customer_name" validate:"required"`
	CustomerWhatsapp    string     `json:"customer_whatsapp" validate:"required"`
	CustomerCategory    string     `json:"customer_category" validate:"required"`
	CustomerServiceID   *uint      `json:"customer_service_id"`
	BookingDate         time.Time  `json:"booking_date" validate:"required"`
	BookingNotes        string     `json:"booking_notes"`
	BookingLocationLink string     `json:"booking_location_link"`
	TotalPrice          int64      `json:"total_price" validate:"gte=0"`
	ServiceBasePrice    int64      `json:"service_base_price" validate:"gte=0"`
	BaseDiscount        int64      `json:"base_discount" validate:"gte=0"`
	CouponCode          string     `json:"coupon_code"`
	PhotographerID      *uint      `json:"photographer_id"`
	Payments            []PaymentDraft   `json:"payments" validate:"dive"`
	Addons              []AddonSelection `json:"addons" validate:"dive"`
}

// BookingUpdate carries partial fields for Update. Nil means "leave
// unchanged". Payments and Addons, when present, replace the stored
// collections wholesale: callers resend the complete desired state.
type BookingUpdate struct {
	CustomerName        *string    `json:"customer_name"`
	CustomerWhatsapp    *string    `json:"customer_whatsapp"`
	CustomerCategory    *string    `json:"customer_category"`
	CustomerServiceID   *uint      `json:"customer_service_id"`
	BookingDate         *time.Time `json:"booking_date"`
	BookingNotes        *string    `json:"booking_notes"`
	BookingLocationLink *string    `json:"booking_location_link"`
	Status              *string    `json:"status"`
	TotalPrice          *int64     `json:"total_price"`
	ServiceBasePrice    *int64     `json:"service_base_price"`
	BaseDiscount        *int64     `json:"base_discount"`
	PhotographerID      *uint      `json:"photographer_id"`
	Payments            *[]PaymentDraft   `json:"payments"`
	Addons              *[]AddonSelection `json:"addons"`
}

func lockResource(bookingID string) string {
	return "booking:" + bookingID
}

// Create validates the draft, resolves addon snapshots and the coupon, and
// persists the booking with its payments and addon rows in one locked
// transaction.
func (s *BookingService) Create(draft *BookingDraft, actor string) (*models.Booking, error) {
	if err := s.validate.Struct(draft); err != nil {
		return nil, types.NewValidationError("invalid booking: %v", err)
	}

	booking := &models.Booking{
		ID:                  uuid.NewString(),
		Status:              models.StatusActive,
		CustomerName:        draft.CustomerName,
		CustomerWhatsapp:    draft.CustomerWhatsapp,
		CustomerCategory:    draft.CustomerCategory,
		CustomerServiceID:   draft.CustomerServiceID,
		BookingDate:         draft.BookingDate,
		BookingNotes:        draft.BookingNotes,
		BookingLocationLink: draft.BookingLocationLink,
		TotalPrice:          draft.TotalPrice,
		ServiceBasePrice:    &draft.ServiceBasePrice,
		BaseDiscount:        &draft.BaseDiscount,
		PhotographerID:      draft.PhotographerID,
	}

	err := s.locks.WithLock(lockResource(booking.ID), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if booking.PhotographerID != nil {
				if err := checkPhotographerExists(tx, *booking.PhotographerID); err != nil {
					return err
				}
			}

			addonRows, addonsTotal, err := resolveAddons(tx, booking.ID, draft.CustomerCategory, draft.Addons)
			if err != nil {
				return err
			}
			booking.AddonsTotal = &addonsTotal

			var couponDiscount int64
			var redeemed *models.Coupon
			if draft.CouponCode != "" {
				result, err := s.coupons.ValidateWith(tx, draft.CouponCode, draft.TotalPrice)
				if err != nil {
					return err
				}
				if !result.Valid {
					return types.NewValidationError("coupon rejected: %s", result.Error)
				}
				couponDiscount = result.DiscountAmount
				redeemed = result.Coupon
				code := redeemed.Code
				booking.CouponCode = &code
			}
			booking.CouponDiscount = &couponDiscount

			if err := tx.Create(booking).Error; err != nil {
				return err
			}
			for i := range draft.Payments {
				p := paymentFromDraft(booking.ID, &draft.Payments[i])
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
			}
			for i := range addonRows {
				if err := tx.Create(&addonRows[i]).Error; err != nil {
					return err
				}
			}

			if redeemed != nil {
				if err := s.coupons.RecordUsageWith(tx, redeemed.ID, booking.ID, couponDiscount, draft.TotalPrice); err != nil {
					return err
				}
			}

			return writeAudit(tx, actor, "create", booking.ID, nil)
		})
	})
	if err != nil {
		return nil, s.classify("create booking", booking.ID, err)
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("customer", booking.CustomerName),
		zap.String("actor", actor))
	return s.Get(booking.ID)
}

// Update applies partial fields under the booking's lock. Completed bookings
// are immutable. The payment and addon collections, when sent, are replaced
// rather than merged, and an audit entry records the actor and the fields
// that changed.
func (s *BookingService) Update(id string, upd *BookingUpdate, actor string) (*models.Booking, error) {
	err := s.locks.WithLock(lockResource(id), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			booking, err := loadBooking(tx, id)
			if err != nil {
				return err
			}
			if booking.Status.IsTerminal() {
				return types.NewValidationError("booking %s is completed and can no longer be modified", id)
			}

			var changed []string
			apply := func(field string, assign func()) {
				assign()
				changed = append(changed, field)
			}

			if upd.CustomerName != nil {
				apply("customer_name", func() { booking.CustomerName = *upd.CustomerName })
			}
			if upd.CustomerWhatsapp != nil {
				apply("customer_whatsapp", func() { booking.CustomerWhatsapp = *upd.CustomerWhatsapp })
			}
			if upd.CustomerCategory != nil {
				apply("customer_category", func() { booking.CustomerCategory = *upd.CustomerCategory })
			}
			if upd.CustomerServiceID != nil {
				apply("customer_service_id", func() { booking.CustomerServiceID = upd.CustomerServiceID })
			}
			if upd.BookingDate != nil {
				apply("booking_date", func() { booking.BookingDate = *upd.BookingDate })
			}
			if upd.BookingNotes != nil {
				apply("booking_notes", func() { booking.BookingNotes = *upd.BookingNotes })
			}
			if upd.BookingLocationLink != nil {
				apply("booking_location_link", func() { booking.BookingLocationLink = *upd.BookingLocationLink })
			}
			if upd.TotalPrice != nil {
				if *upd.TotalPrice < 0 {
					return types.NewValidationError("total_price must not be negative")
				}
				apply("total_price", func() { booking.TotalPrice = *upd.TotalPrice })
			}
			if upd.ServiceBasePrice != nil {
				apply("service_base_price", func() { booking.ServiceBasePrice = upd.ServiceBasePrice })
			}
			if upd.BaseDiscount != nil {
				apply("base_discount", func() { booking.BaseDiscount = upd.BaseDiscount })
			}
			if upd.Status != nil {
				next := models.NormalizeStatus(*upd.Status)
				if !models.CanTransition(booking.Status, next) {
					return types.NewValidationError("cannot change status from %s to %s", booking.Status, next)
				}
				apply("status", func() { booking.Status = next })
			}
			if upd.PhotographerID != nil {
				if err := checkPhotographerExists(tx, *upd.PhotographerID); err != nil {
					return err
				}
				apply("photographer_id", func() { booking.PhotographerID = upd.PhotographerID })
			}

			if upd.Payments != nil {
				for i := range *upd.Payments {
					if (*upd.Payments)[i].Amount < 0 {
						return types.NewValidationError("payment amount must not be negative")
					}
				}
				if err := tx.Where("booking_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
					return err
				}
				for i := range *upd.Payments {
					p := paymentFromDraft(id, &(*upd.Payments)[i])
					if err := tx.Create(&p).Error; err != nil {
						return err
					}
				}
				changed = append(changed, "payments")
			}

			if upd.Addons != nil {
				if err := tx.Where("booking_id = ?", id).Delete(&models.BookingAddon{}).Error; err != nil {
					return err
				}
				rows, addonsTotal, err := resolveAddons(tx, id, booking.CustomerCategory, *upd.Addons)
				if err != nil {
					return err
				}
				for i := range rows {
					if err := tx.Create(&rows[i]).Error; err != nil {
						return err
					}
				}
				booking.AddonsTotal = &addonsTotal
				changed = append(changed, "addons")
			}

			if err := tx.Omit("Payments", "Addons", "RescheduleHistory", "Photographer").Save(booking).Error; err != nil {
				return err
			}
			return writeAudit(tx, actor, "update", id, changed)
		})
	})
	if err != nil {
		return nil, s.classify("update booking", id, err)
	}

	s.log.Info("booking updated", zap.String("booking_id", id), zap.String("actor", actor))
	return s.Get(id)
}

// Reschedule moves the booking to newDate, appending a history row and
// flipping the status to Rescheduled. The target slot must not be occupied by
// another Active or Rescheduled booking.
func (s *BookingService) Reschedule(id string, newDate time.Time, reason *string, actor string) (*models.Booking, error) {
	err := s.locks.WithLock(lockResource(id), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			booking, err := loadBooking(tx, id)
			if err != nil {
				return err
			}
			if booking.Status.IsTerminal() {
				return types.NewValidationError("booking %s is completed and can no longer be rescheduled", id)
			}

			conflictID, err := slotOccupant(tx, newDate, id)
			if err != nil {
				return err
			}
			if conflictID != "" {
				return &types.SlotConflictError{Slot: newDate, ConflictingID: conflictID}
			}

			entry := models.RescheduleEntry{
				BookingID:     id,
				OldDate:       booking.BookingDate,
				NewDate:       newDate,
				RescheduledAt: time.Now(),
				Reason:        reason,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			booking.BookingDate = newDate
			booking.Status = models.StatusRescheduled
			if err := tx.Omit("Payments", "Addons", "RescheduleHistory", "Photographer").Save(booking).Error; err != nil {
				return err
			}
			return writeAudit(tx, actor, "reschedule", id, []string{"booking_date", "status"})
		})
	})
	if err != nil {
		return nil, s.classify("reschedule booking", id, err)
	}

	s.log.Info("booking rescheduled",
		zap.String("booking_id", id),
		zap.Time("new_date", newDate),
		zap.String("actor", actor))
	return s.Get(id)
}

// Delete removes the booking and all its payments, addon associations and
// reschedule history. Completed bookings cannot be deleted.
func (s *BookingService) Delete(id string, actor string) error {
	err := s.locks.WithLock(lockResource(id), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			booking, err := loadBooking(tx, id)
			if err != nil {
				return err
			}
			if booking.Status.IsTerminal() {
				return types.NewValidationError("completed bookings cannot be deleted")
			}

			// Children are deleted explicitly so the cascade holds on any
			// driver, not just ones that enforce the FK constraints.
			if err := tx.Where("booking_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("booking_id = ?", id).Delete(&models.BookingAddon{}).Error; err != nil {
				return err
			}
			if err := tx.Where("booking_id = ?", id).Delete(&models.RescheduleEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Booking{}, "id = ?", id).Error; err != nil {
				return err
			}
			return writeAudit(tx, actor, "delete", id, nil)
		})
	})
	if err != nil {
		return s.classify("delete booking", id, err)
	}

	s.log.Info("booking deleted", zap.String("booking_id", id), zap.String("actor", actor))
	return nil
}

// SetStatus overwrites the booking status. The input is normalized first, so
// any string maps to one of the four canonical statuses; leaving Completed is
// the one move that is rejected.
func (s *BookingService) SetStatus(id string, status string, actor string) (*models.Booking, error) {
	next := models.NormalizeStatus(status)
	err := s.locks.WithLock(lockResource(id), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			booking, err := loadBooking(tx, id)
			if err != nil {
				return err
			}
			if !models.CanTransition(booking.Status, next) {
				return types.NewValidationError("cannot change status from %s to %s", booking.Status, next)
			}
			if err := tx.Model(&models.Booking{}).Where("id = ?", id).Update("status", next).Error; err != nil {
				return err
			}
			return writeAudit(tx, actor, "set_status", id, []string{"status"})
		})
	})
	if err != nil {
		return nil, s.classify("set booking status", id, err)
	}

	s.log.Info("booking status changed",
		zap.String("booking_id", id),
		zap.String("status", string(next)),
		zap.String("actor", actor))
	return s.Get(id)
}

// AssignPhotographer sets or clears (nil) the booking's photographer.
func (s *BookingService) AssignPhotographer(id string, photographerID *uint, actor string) (*models.Booking, error) {
	err := s.locks.WithLock(lockResource(id), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			booking, err := loadBooking(tx, id)
			if err != nil {
				return err
			}
			if booking.Status.IsTerminal() {
				return types.NewValidationError("booking %s is completed and can no longer be modified", id)
			}
			if photographerID != nil {
				if err := checkPhotographerExists(tx, *photographerID); err != nil {
					return err
				}
			}
			if err := tx.Model(&models.Booking{}).Where("id = ?", id).Update("photographer_id", photographerID).Error; err != nil {
				return err
			}
			return writeAudit(tx, actor, "assign_photographer", id, []string{"photographer_id"})
		})
	})
	if err != nil {
		return nil, s.classify("assign photographer", id, err)
	}
	return s.Get(id)
}

// Get loads a booking with its payments, addons, reschedule history and
// photographer. Collections come back in stable order.
func (s *BookingService) Get(id string) (*models.Booking, error) {
	booking, err := loadBookingWith(s.db, id)
	if err != nil {
		return nil, s.classify("get booking", id, err)
	}
	return booking, nil
}

// ListOptions filters List. Zero values mean "no filter".
type ListOptions struct {
	Status         string
	Category       string
	PhotographerID uint
	From           time.Time
	To             time.Time
}

// List returns bookings matching opts, newest session first.
func (s *BookingService) List(opts ListOptions) ([]models.Booking, error) {
	q := s.db.Model(&models.Booking{}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, id ASC") }).
		Preload("Addons").
		Preload("Photographer")
	if opts.Status != "" {
		q = q.Where("status = ?", models.NormalizeStatus(opts.Status))
	}
	if opts.Category != "" {
		q = q.Where("customer_category = ?", opts.Category)
	}
	if opts.PhotographerID != 0 {
		q = q.Where("photographer_id = ?", opts.PhotographerID)
	}
	if !opts.From.IsZero() {
		q = q.Where("booking_date >= ?", opts.From)
	}
	if !opts.To.IsZero() {
		q = q.Where("booking_date <= ?", opts.To)
	}

	var bookings []models.Booking
	if err := q.Order("booking_date DESC").Find(&bookings).Error; err != nil {
		return nil, &types.DatabaseError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

// CheckSlotAvailable reports whether the exact date/time is free of other
// Active/Rescheduled bookings, and if not, which booking holds it.
func (s *BookingService) CheckSlotAvailable(slot time.Time, excludeID string) (bool, string, error) {
	conflictID, err := slotOccupant(s.db, slot, excludeID)
	if err != nil {
		return false, "", s.classify("check slot", excludeID, err)
	}
	return conflictID == "", conflictID, nil
}

func slotOccupant(tx *gorm.DB, slot time.Time, excludeID string) (string, error) {
	var other models.Booking
	q := tx.Where("booking_date = ? AND status IN ?", slot,
		[]models.BookingStatus{models.StatusActive, models.StatusRescheduled})
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Select("id").First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return other.ID, nil
}

func loadBooking(tx *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := tx.First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &types.NotFoundError{Entity: "booking", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func loadBookingWith(tx *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := tx.
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, id ASC") }).
		Preload("Addons").
		Preload("RescheduleHistory", func(db *gorm.DB) *gorm.DB { return db.Order("rescheduled_at ASC, id ASC") }).
		Preload("Photographer").
		First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &types.NotFoundError{Entity: "booking", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func checkPhotographerExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Photographer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &types.NotFoundError{Entity: "photographer", ID: fmt.Sprint(id)}
	}
	return nil
}

func paymentFromDraft(bookingID string, d *PaymentDraft) models.Payment {
	return models.Payment{
		BookingID:     bookingID,
		Date:          d.Date,
		Amount:        d.Amount,
		Note:          d.Note,
		ProofFilename: d.ProofFilename,
	}
}

// resolveAddons turns catalog selections into snapshot rows, rejecting
// inactive addons and addons that do not apply to the booking's category.
func resolveAddons(tx *gorm.DB, bookingID, category string, selections []AddonSelection) ([]models.BookingAddon, int64, error) {
	rows := make([]models.BookingAddon, 0, len(selections))
	var total int64
	for _, sel := range selections {
		var addon models.Addon
		err := tx.First(&addon, sel.AddonID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &types.NotFoundError{Entity: "addon", ID: fmt.Sprint(sel.AddonID)}
		}
		if err != nil {
			return nil, 0, err
		}
		if !addon.IsActive {
			return nil, 0, types.NewValidationError("addon %q is not active", addon.Name)
		}
		if !addon.AppliesTo(category) {
			return nil, 0, types.NewValidationError("addon %q does not apply to category %q", addon.Name, category)
		}
		rows = append(rows, models.BookingAddon{
			BookingID:      bookingID,
			AddonID:        addon.ID,
			NameAtBooking:  addon.Name,
			Quantity:       sel.Quantity,
			PriceAtBooking: addon.Price,
		})
		total += int64(sel.Quantity) * addon.Price
	}
	return rows, total, nil
}

// classify rewraps persistence failures into the error taxonomy. Errors
// already in the taxonomy pass through untouched; nothing is retried here.
func (s *BookingService) classify(op, bookingID string, err error) error {
	var (
		ve *types.ValidationError
		lt *types.LockTimeoutError
		sc *types.SlotConflictError
		nf *types.NotFoundError
		pd *types.PermissionDeniedError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &lt), errors.As(err, &sc), errors.As(err, &nf), errors.As(err, &pd):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &types.NotFoundError{Entity: "booking", ID: bookingID}
	}
	s.log.Error("booking operation failed",
		zap.String("op", op),
		zap.String("booking_id", bookingID),
		zap.Error(err))
	return &types.DatabaseError{Op: op, BookingID: bookingID, Err: err}
}
