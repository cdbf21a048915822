package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum. The profile column is free text; these are the values the
// server gives meaning to.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleMedico     Role = "MEDICO"
	RoleSecretaria Role = "SECRETARIA"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// User represents a user in the system
type User struct {
	BaseModel
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Profile  Role   `gorm:"size:50;not null" json:"profile"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Profile   Role      `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasRole reports whether the user's profile is one of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Profile == r {
			return true
		}
	}
	return false
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}
