package models

import (
	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RolePatient  UserRole = "PATIENT"
	RoleProvider UserRole = "PROVIDER"
	RoleAdmin    UserRole = "ADMIN"
)

// Valid reports whether r is one of the closed set of roles.
func (r UserRole) Valid() bool {
	switch r {
	case RolePatient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// User represents an identity record. The credential is persisted with the
// user; every read path must go through Sanitize before a user leaves the
// repository.
type User struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Role          UserRole `json:"role"`
	IsVerified    bool     `json:"isVerified"`
	Password      string   `json:"password,omitempty"`
	AvatarURL     string   `json:"avatarUrl,omitempty"`
	WalletAddress string   `json:"walletAddress,omitempty"`
	HealthScore   int      `json:"healthScore,omitempty"` // 0-100
	ParentID      string   `json:"parentId,omitempty"`    // set when this user is a dependent profile
	Country       string   `json:"country,omitempty"`
}

// UserSanitized is the user data that is safe to return to callers.
type UserSanitized struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Role          UserRole `json:"role"`
	IsVerified    bool     `json:"isVerified"`
	AvatarURL     string   `json:"avatarUrl,omitempty"`
	WalletAddress string   `json:"walletAddress,omitempty"`
	HealthScore   int      `json:"healthScore,omitempty"`
	ParentID      string   `json:"parentId,omitempty"`
	Country       string   `json:"country,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
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

// Sanitize creates a UserSanitized struct from a User, excluding the credential.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		IsVerified:    u.IsVerified,
		AvatarURL:     u.AvatarURL,
		WalletAddress: u.WalletAddress,
		HealthScore:   u.HealthScore,
		ParentID:      u.ParentID,
		Country:       u.Country,
	}
}

// Contact is a directory entry for a connected user.
type Contact struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        UserRole `json:"role"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	LastMessage string   `json:"lastMessage,omitempty"`
	IsOnline    bool     `json:"isOnline"`
}
