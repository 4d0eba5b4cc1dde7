package models

import (
	"time"
)

// Booking represents an order for a photography session. Monetary amounts are
// stored as integers in the smallest currency unit. The breakdown columns
// (service_base_price, base_discount, addons_total, coupon_discount,
// coupon_code) are nullable: legacy bookings predate them and omit all five.
type Booking struct {
	ID        string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Status    BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'Active'"`

	CustomerName      string `json:"customer_name" gorm:"type:varchar(200);not null"`
	CustomerWhatsapp  string `json:"customer_whatsapp" gorm:"type:varchar(30);not null"`
	CustomerCategory  string `json:"customer_category" gorm:"type:varchar(50);not null"`
	CustomerServiceID *uint  `json:"customer_service_id"`

	BookingDate         time.Time `json:"booking_date" gorm:"not null;index"`
	BookingNotes        string    `json:"booking_notes" gorm:"type:text"`
	BookingLocationLink string    `json:"booking_location_link" gorm:"type:varchar(500)"`

	TotalPrice       int64   `json:"total_price" gorm:"not null"`
	ServiceBasePrice *int64  `json:"service_base_price"`
	BaseDiscount     *int64  `json:"base_discount"`
	AddonsTotal      *int64  `json:"addons_total"`
	CouponDiscount   *int64  `json:"coupon_discount"`
	CouponCode       *string `json:"coupon_code" gorm:"type:varchar(50)"`

	PhotographerID *uint         `json:"photographer_id"`
	Photographer   *Photographer `json:"photographer,omitempty" gorm:"foreignKey:PhotographerID;constraint:OnDelete:SET NULL"`

	Payments          []Payment         `json:"payments" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	Addons            []BookingAddon    `json:"addons" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	RescheduleHistory []RescheduleEntry `json:"reschedule_history" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Payment is one entry in a booking's finance ledger. Legacy rows carry the
// proof image inline as base64; the proof migration converts those to a file
// on disk plus a proof_filename reference.
type Payment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	BookingID     string    `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	Date          time.Time `json:"date" gorm:"not null"`
	Amount        int64     `json:"amount" gorm:"not null"`
	Note          string    `json:"note" gorm:"type:varchar(500)"`
	ProofFilename *string   `json:"proof_filename" gorm:"type:varchar(255)"`
	ProofBase64   *string   `json:"proof_base64,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// BookingAddon snapshots an addon line item at booking time. Catalog edits
// after the fact never change these rows.
type BookingAddon struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	BookingID      string `json:"booking_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_booking_addon"`
	AddonID        uint   `json:"addon_id" gorm:"not null;uniqueIndex:idx_booking_addon"`
	NameAtBooking  string `json:"name_at_booking" gorm:"type:varchar(200);not null"`
	Quantity       int    `json:"quantity" gorm:"not null"`
	PriceAtBooking int64  `json:"price_at_booking" gorm:"not null"`
}

func (BookingAddon) TableName() string {
	return "booking_addons"
}

// RescheduleEntry is one row of a booking's append-only reschedule audit
// trail, ordered by rescheduled_at.
type RescheduleEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	BookingID     string    `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	OldDate       time.Time `json:"old_date" gorm:"not null"`
	NewDate       time.Time `json:"new_date" gorm:"not null"`
	RescheduledAt time.Time `json:"rescheduled_at" gorm:"not null"`
	Reason        *string   `json:"reason" gorm:"type:varchar(500)"`
}

func (RescheduleEntry) TableName() string {
	return "reschedule_history"
}
