package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

// writeAudit records who did what to a booking. Entries are written inside
// the caller's transaction and intentionally not cascaded on booking delete.
func writeAudit(tx *gorm.DB, actor, action, bookingID string, changedFields []string) error {
	entry := models.AuditLog{
		Actor:         actor,
		Action:        action,
		BookingID:     bookingID,
		ChangedFields: strings.Join(changedFields, ","),
	}
	return tx.Create(&entry).Error
}
