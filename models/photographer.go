package models

import "time"

// Photographer is a staff member who can be assigned to bookings. Deleting a
// photographer nulls out the reference on their bookings; it never deletes
// the bookings themselves.
type Photographer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	Phone     *string   `json:"phone" gorm:"type:varchar(30)"`
	Specialty *string   `json:"specialty" gorm:"type:varchar(100)"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Photographer) TableName() string {
	return "photographers"
}
