package models

import "time"

// PaymentMethod is a bank account or e-wallet shown to customers on invoices
// and the booking form.
type PaymentMethod struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(100);not null"`
	AccountName   string    `json:"account_name" gorm:"type:varchar(200)"`
	AccountNumber string    `json:"account_number" gorm:"type:varchar(100)"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	SortOrder     int       `json:"sort_order" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}
