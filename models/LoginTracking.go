package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking is one successful login, kept for the user's login history
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index"`
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
	IsDeleted bool      `json:"-" gorm:"default:false"`
}
