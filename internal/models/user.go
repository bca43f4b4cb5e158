package models

import "time"

// User is a registered account. Password holds a bcrypt hash and RefreshToken the
// SHA-256 digest of the single active refresh token; neither is ever serialized.
type User struct {
	ID                      string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username                string     `json:"username" gorm:"uniqueIndex;type:varchar(30);not null"`
	Fullname                string     `json:"fullname" gorm:"type:varchar(100);not null"`
	Email                   string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password                string     `json:"-" gorm:"type:varchar(255);not null"`
	IsEmailVerified         bool       `json:"isEmailVerified" gorm:"not null;default:false"`
	EmailVerificationToken  *string    `json:"-" gorm:"type:varchar(255)"`
	EmailVerificationExpiry *time.Time `json:"-"`
	ResetPasswordToken      *string    `json:"-" gorm:"type:varchar(255)"`
	ResetPasswordExpiry     *time.Time `json:"-"`
	RefreshToken            *string    `json:"-" gorm:"type:varchar(64)"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// Sanitized returns a copy without credential material.
func (u User) Sanitized() User {
	u.Password = ""
	u.RefreshToken = nil
	u.EmailVerificationToken = nil
	u.ResetPasswordToken = nil
	return u
}
