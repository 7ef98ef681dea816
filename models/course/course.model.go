package course

import (
	"time"

	"gorm.io/gorm"
)

// Course represents a purchasable learning course
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" gorm:"default:0"` // INR
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `json:"-" gorm:"default:false"`
}

// Coupon grants a percentage discount at enrollment time
type Coupon struct {
	gorm.Model
	Code            string     `json:"code" gorm:"uniqueIndex;not null"`
	DiscountPercent int        `json:"discount_percent"`
	ExpiresAt       *time.Time `json:"expires_at"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
}

// Usable reports whether the coupon can be applied at the given time.
func (c Coupon) Usable(at time.Time) bool {
	if !c.IsActive {
		return false
	}
	return c.ExpiresAt == nil || c.ExpiresAt.After(at)
}
