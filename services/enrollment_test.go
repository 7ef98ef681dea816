package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"
	courseModels "trademaster/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "rzp_test_secret"

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(courseModels.PaymentPending, courseModels.PaymentCompleted))
	assert.True(t, CanTransition(courseModels.PaymentCompleted, courseModels.PaymentRefunded))

	assert.False(t, CanTransition(courseModels.PaymentPending, courseModels.PaymentRefunded))
	assert.False(t, CanTransition(courseModels.PaymentRefunded, courseModels.PaymentCompleted))
	assert.False(t, CanTransition(courseModels.PaymentRefunded, courseModels.PaymentPending))
	assert.False(t, CanTransition(courseModels.PaymentCompleted, courseModels.PaymentPending))
}

func TestTransitionPaymentRejectsIllegalMoves(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 100)
	enrollment := createEnrollment(t, db, user.ID, course.ID, courseModels.PaymentRefunded)

	err := TransitionPayment(db, &enrollment, courseModels.PaymentCompleted, nil)
	assert.Equal(t, fiber.StatusConflict, StatusOf(err))
	assert.Equal(t, courseModels.PaymentRefunded, enrollment.PaymentStatus)

	// Same state is a no-op.
	assert.NoError(t, TransitionPayment(db, &enrollment, courseModels.PaymentRefunded, nil))
}

func TestTransitionPaymentDetectsStaleState(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 100)
	enrollment := createEnrollment(t, db, user.ID, course.ID, courseModels.PaymentPending)

	stale := enrollment
	require.NoError(t, TransitionPayment(db, &enrollment, courseModels.PaymentCompleted, nil))

	stale.PaymentStatus = courseModels.PaymentPending
	err := TransitionPayment(db, &stale, courseModels.PaymentCompleted, nil)
	assert.Equal(t, fiber.StatusConflict, StatusOf(err))
}

func TestAmountDue(t *testing.T) {
	assert.Equal(t, 999.0, AmountDue(999, 0))
	assert.Equal(t, 899.1, AmountDue(999, 10))
	assert.Equal(t, 0.0, AmountDue(999, 100))
	assert.Equal(t, 333.33, AmountDue(666.66, 50))
}

func TestEnrollPaidCourseStartsPending(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 1999)

	enrollment, err := Enroll(db, user.ID, course.ID, "")
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentPending, enrollment.PaymentStatus)
	assert.Equal(t, 1999.0, enrollment.AmountPaid)

	_, err = Enroll(db, user.ID, course.ID, "")
	assert.Equal(t, fiber.StatusConflict, StatusOf(err))
}

func TestEnrollFreeCourseCompletesImmediately(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 0)

	enrollment, err := Enroll(db, user.ID, course.ID, "")
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentCompleted, enrollment.PaymentStatus)
}

func TestEnrollWithCoupon(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 1000)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&courseModels.Coupon{Code: "HALF", DiscountPercent: 50, IsActive: true}).Error)
	require.NoError(t, db.Create(&courseModels.Coupon{Code: "FREE", DiscountPercent: 100, IsActive: true}).Error)
	require.NoError(t, db.Create(&courseModels.Coupon{Code: "OLD", DiscountPercent: 20, IsActive: true, ExpiresAt: &past}).Error)

	_, err := Enroll(db, user.ID, course.ID, "OLD")
	assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	_, err = Enroll(db, user.ID, course.ID, "NOPE")
	assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))

	enrollment, err := Enroll(db, user.ID, course.ID, "half")
	require.NoError(t, err)
	assert.Equal(t, 500.0, enrollment.AmountPaid)
	assert.Equal(t, "HALF", enrollment.CouponCode)
	assert.Equal(t, courseModels.PaymentPending, enrollment.PaymentStatus)

	other := createUser(t, db, "b@example.com")
	free, err := Enroll(db, other.ID, course.ID, "FREE")
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentCompleted, free.PaymentStatus)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 100)
	require.NoError(t, db.Model(&course).Update("is_published", false).Error)

	_, err := Enroll(db, user.ID, course.ID, "")
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
}

func TestVerifyPaymentSignature(t *testing.T) {
	good := sign("order_1", "pay_1")

	assert.True(t, VerifyPaymentSignature(testSecret, "order_1", "pay_1", good))
	assert.False(t, VerifyPaymentSignature(testSecret, "order_1", "pay_2", good))
	assert.False(t, VerifyPaymentSignature("other", "order_1", "pay_1", good))
	assert.False(t, VerifyPaymentSignature("", "order_1", "pay_1", good))
}

func TestConfirmPayment(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 499)
	content := createContent(t, db, course.ID, 1, false)
	_, err := Enroll(db, user.ID, course.ID, "")
	require.NoError(t, err)

	_, err = ConfirmPayment(db, testSecret, user.ID, course.ID, "order_1", "pay_1", "00")
	assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))

	enrollment, err := ConfirmPayment(db, testSecret, user.ID, course.ID, "order_1", "pay_1", sign("order_1", "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentCompleted, enrollment.PaymentStatus)
	assert.Equal(t, "pay_1", enrollment.PaymentID)

	_, err = Authorize(db, user.ID, content.ID)
	assert.NoError(t, err)
}

func TestConfirmPaymentWithoutEnrollment(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 499)

	_, err := ConfirmPayment(db, testSecret, user.ID, course.ID, "o", "p", sign("o", "p"))
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
}

func TestRefund(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "a@example.com")
	course := createCourse(t, db, 499)
	pending := createEnrollment(t, db, user.ID, course.ID, courseModels.PaymentPending)

	_, err := Refund(db, pending.ID)
	assert.Equal(t, fiber.StatusConflict, StatusOf(err))

	_, err = Refund(db, 777)
	assert.Equal(t, fiber.StatusNotFound, StatusOf(err))

	require.NoError(t, db.Model(&pending).Update("payment_status", courseModels.PaymentCompleted).Error)
	refunded, err := Refund(db, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentRefunded, refunded.PaymentStatus)
}
