package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Role                string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	Password            string     `json:"-" gorm:"not null"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}

// Blocked reports whether repeated failed logins have locked the account at t.
func (u User) Blocked(t time.Time) bool {
	return u.BlockedUntil != nil && u.BlockedUntil.After(t)
}
