package models

import "time"

// AuditLog records who changed a booking and which fields were touched.
// Entries survive the deletion of the booking they describe.
type AuditLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Actor         string    `json:"actor" gorm:"type:varchar(100);not null"`
	Action        string    `json:"action" gorm:"type:varchar(50);not null"`
	BookingID     string    `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	ChangedFields string    `json:"changed_fields" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
