package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"time"
	courseModels "trademaster/models/course"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allowedTransitions is the payment state machine. REFUNDED has no exits.
var allowedTransitions = map[string][]string{
	courseModels.PaymentPending:   {courseModels.PaymentCompleted},
	courseModels.PaymentCompleted: {courseModels.PaymentRefunded},
}

// CanTransition reports whether from -> to is a legal payment transition.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionPayment moves an enrollment to status `to`. Repeating the current
// status is a no-op.
func TransitionPayment(db *gorm.DB, enrollment *courseModels.Enrollment, to string, updates map[string]interface{}) error {
	if enrollment.PaymentStatus == to {
		return nil
	}
	if !CanTransition(enrollment.PaymentStatus, to) {
		return Conflict("Cannot change payment status from " + enrollment.PaymentStatus + " to " + to + "!")
	}

	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["payment_status"] = to

	// Guard on the old status so two racing transitions cannot both win.
	result := db.Model(&courseModels.Enrollment{}).
		Where("id = ? AND payment_status = ?", enrollment.ID, enrollment.PaymentStatus).
		Updates(updates)
	if result.Error != nil {
		return Internal(result.Error, "update payment status")
	}
	if result.RowsAffected == 0 {
		return Conflict("Enrollment was modified concurrently, retry!")
	}
	enrollment.PaymentStatus = to
	return nil
}

// AmountDue applies a percentage discount and rounds to paise.
func AmountDue(price float64, discountPercent int) float64 {
	if discountPercent <= 0 {
		return price
	}
	if discountPercent >= 100 {
		return 0
	}
	return math.Round(price*float64(100-discountPercent)) / 100
}

// Enroll creates the enrollment for (user, course). Zero-cost enrollments start
// COMPLETED; everything else waits for payment in PENDING.
func Enroll(db *gorm.DB, userID, courseID uint, couponCode string) (courseModels.Enrollment, error) {
	var course courseModels.Course
	err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return courseModels.Enrollment{}, NotFound("Course not found or not published!")
	}
	if err != nil {
		return courseModels.Enrollment{}, Internal(err, "load course")
	}

	discount := 0
	code := strings.ToUpper(strings.TrimSpace(couponCode))
	if code != "" {
		var coupon courseModels.Coupon
		err := db.Where("code = ?", code).First(&coupon).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !coupon.Usable(time.Now())) {
			return courseModels.Enrollment{}, BadRequest("Invalid or expired coupon!")
		}
		if err != nil {
			return courseModels.Enrollment{}, Internal(err, "load coupon")
		}
		discount = coupon.DiscountPercent
	}

	amount := AmountDue(course.Price, discount)
	status := courseModels.PaymentPending
	if amount == 0 {
		status = courseModels.PaymentCompleted
	}

	enrollment := courseModels.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		PaymentStatus: status,
		AmountPaid:    amount,
		CouponCode:    code,
		EnrolledAt:    time.Now(),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment)
	if result.Error != nil {
		return courseModels.Enrollment{}, Internal(result.Error, "create enrollment")
	}
	if result.RowsAffected == 0 {
		return courseModels.Enrollment{}, Conflict("User already enrolled in this course!")
	}
	return enrollment, nil
}

// VerifyPaymentSignature checks the gateway's HMAC-SHA256 over "orderID|paymentID".
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// ConfirmPayment verifies a gateway callback and completes the enrollment.
func ConfirmPayment(db *gorm.DB, secret string, userID, courseID uint, orderID, paymentID, signature string) (courseModels.Enrollment, error) {
	enrollment, err := FindEnrollment(db, userID, courseID)
	if err != nil {
		return courseModels.Enrollment{}, err
	}
	if enrollment == nil {
		return courseModels.Enrollment{}, NotFound("Enrollment not found!")
	}
	if !VerifyPaymentSignature(secret, orderID, paymentID, signature) {
		return *enrollment, BadRequest("Invalid payment signature!")
	}
	if enrollment.PaymentStatus == courseModels.PaymentCompleted {
		return *enrollment, nil
	}
	err = TransitionPayment(db, enrollment, courseModels.PaymentCompleted, map[string]interface{}{
		"payment_order_id": orderID,
		"payment_id":       paymentID,
	})
	if err != nil {
		return *enrollment, err
	}
	enrollment.PaymentOrderID = orderID
	enrollment.PaymentID = paymentID
	return *enrollment, nil
}

// Refund flips a completed enrollment to REFUNDED, revoking access on the next request.
func Refund(db *gorm.DB, enrollmentID uint) (courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := db.First(&enrollment, enrollmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return enrollment, NotFound("Enrollment not found!")
	}
	if err != nil {
		return enrollment, Internal(err, "load enrollment")
	}
	if err := TransitionPayment(db, &enrollment, courseModels.PaymentRefunded, nil); err != nil {
		return enrollment, err
	}
	return enrollment, nil
}
