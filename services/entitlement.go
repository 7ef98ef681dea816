package services

import (
	courseModels "trademaster/models/course"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Access is the outcome of an entitlement check.
type Access struct {
	Allowed bool
	Reason  string
	Content courseModels.CourseContent
}

const (
	ReasonFreePreview    = "free preview"
	ReasonEnrolled       = "enrolled"
	ReasonNotEnrolled    = "not enrolled in this course"
	ReasonPaymentPending = "payment pending for this course"
	ReasonRefunded       = "enrollment has been refunded"
)

// FindActiveContent loads a content item that is live for learners.
func FindActiveContent(db *gorm.DB, contentID uint) (courseModels.CourseContent, error) {
	var content courseModels.CourseContent
	err := db.Where("id = ? AND is_deleted = ? AND is_active = ?", contentID, false, true).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return content, NotFound("Content not found!")
	}
	if err != nil {
		return content, Internal(err, "load content")
	}
	return content, nil
}

// FindEnrollment returns the enrollment for (user, course), or nil if none exists.
func FindEnrollment(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, Internal(err, "load enrollment")
	}
	return &enrollment, nil
}

// CanAccess decides whether userID may consume contentID. It reads current
// enrollment state on every call so a refund takes effect on the next request.
func CanAccess(db *gorm.DB, userID, contentID uint) (Access, error) {
	content, err := FindActiveContent(db, contentID)
	if err != nil {
		return Access{}, err
	}

	if content.IsFreePreview {
		return Access{Allowed: true, Reason: ReasonFreePreview, Content: content}, nil
	}

	allowed, reason, err := courseAccess(db, userID, content.CourseID)
	if err != nil {
		return Access{}, err
	}
	return Access{Allowed: allowed, Reason: reason, Content: content}, nil
}

// CanAccessCourse checks enrollment-based access to a whole course.
func CanAccessCourse(db *gorm.DB, userID, courseID uint) (bool, string, error) {
	return courseAccess(db, userID, courseID)
}

// Authorize is CanAccess that turns a denial into a Forbidden error.
func Authorize(db *gorm.DB, userID, contentID uint) (courseModels.CourseContent, error) {
	access, err := CanAccess(db, userID, contentID)
	if err != nil {
		return courseModels.CourseContent{}, err
	}
	if !access.Allowed {
		return access.Content, Forbidden("Access denied: " + access.Reason + "!")
	}
	return access.Content, nil
}

func courseAccess(db *gorm.DB, userID, courseID uint) (bool, string, error) {
	enrollment, err := FindEnrollment(db, userID, courseID)
	if err != nil {
		return false, "", err
	}
	if enrollment == nil {
		return false, ReasonNotEnrolled, nil
	}
	switch enrollment.PaymentStatus {
	case courseModels.PaymentCompleted:
		return true, ReasonEnrolled, nil
	case courseModels.PaymentRefunded:
		return false, ReasonRefunded, nil
	default:
		return false, ReasonPaymentPending, nil
	}
}
