package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentRefunded  = "REFUNDED"
)

// Enrollment links one user to one course with payment and cached progress
type Enrollment struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID       uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	PaymentStatus  string     `json:"payment_status" gorm:"default:'PENDING'"` // PENDING, COMPLETED, REFUNDED
	AmountPaid     float64    `json:"amount_paid" gorm:"default:0"`
	CouponCode     string     `json:"coupon_code"`
	PaymentOrderID string     `json:"payment_order_id"`
	PaymentID      string     `json:"payment_id"`
	Progress       int        `json:"progress" gorm:"default:0"` // cached percentage (0-100)
	IsCompleted    bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt    *time.Time `json:"completed_at"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
	Course         Course     `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
