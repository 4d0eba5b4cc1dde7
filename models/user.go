package models

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a console operator. Passwords are stored as bcrypt hashes.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"type:varchar(200);not null"`
	Username     string    `json:"username" gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100);not null"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:'staff'"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
