package models

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead is a prospective customer tracked before a booking exists. When a lead
// converts, BookingID links it to the resulting booking.
type Lead struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"type:varchar(200);not null"`
	Whatsapp  string     `json:"whatsapp" gorm:"type:varchar(30);not null"`
	Category  string     `json:"category" gorm:"type:varchar(50)"`
	Status    LeadStatus `json:"status" gorm:"type:varchar(20);not null;default:'new'"`
	Notes     string     `json:"notes" gorm:"type:text"`
	BookingID *string    `json:"booking_id" gorm:"type:varchar(36)"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

// NormalizeLeadStatus coerces arbitrary input to a known lead status,
// defaulting to "new".
func NormalizeLeadStatus(s string) LeadStatus {
	switch LeadStatus(s) {
	case LeadStatusContacted, LeadStatusConverted, LeadStatusLost:
		return LeadStatus(s)
	default:
		return LeadStatusNew
	}
}
