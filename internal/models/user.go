// Package models contains the persisted domain types and the application error type.
package models

import "time"

// MaxUsernameLength mirrors the users.username column width.
const MaxUsernameLength = 80

// User is an account that owns a private implant inventory.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Implants     []Implant `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
