package models

import "time"

// Expense categories shown in the console's expense form.
const (
	ExpenseCategoryEquipment   = "equipment"
	ExpenseCategoryTransport   = "transport"
	ExpenseCategorySalary      = "salary"
	ExpenseCategoryMarketing   = "marketing"
	ExpenseCategoryOperational = "operational"
	ExpenseCategoryOther       = "other"
)

// Expense is a studio cost entry, independent of bookings. It feeds the
// dashboard's financial summary.
type Expense struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	Category    string    `json:"category" gorm:"type:varchar(50);not null"`
	Description string    `json:"description" gorm:"type:varchar(500);not null"`
	Amount      int64     `json:"amount" gorm:"not null"`
	CreatedBy   string    `json:"created_by" gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// ValidExpenseCategory reports whether the category is one of the known
// expense categories.
func ValidExpenseCategory(c string) bool {
	switch c {
	case ExpenseCategoryEquipment, ExpenseCategoryTransport, ExpenseCategorySalary,
		ExpenseCategoryMarketing, ExpenseCategoryOperational, ExpenseCategoryOther:
		return true
	}
	return false
}
