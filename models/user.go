// models/user.go
package models

import "time"

// User accounts gate the board. Passwords are stored as bcrypt hashes
// only, and admin rights are a role flag on the record rather than a
// privileged email address.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:200"`
	Password  string    `json:"-" gorm:"not null"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}
