package services

import (
	"math"
	"time"
	courseModels "trademaster/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressSummary is the aggregate completion state of one user in one course.
type ProgressSummary struct {
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
	Percentage int   `json:"percentage"`
}

// Percentage rounds completed/total to the nearest whole percent; 0 when total is 0.
func Percentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// MarkCompleted records that userID finished contentID and refreshes the
// enrollment's cached progress. Repeating the call is a no-op that returns the
// same summary.
func MarkCompleted(db *gorm.DB, userID, contentID uint) (ProgressSummary, error) {
	content, err := Authorize(db, userID, contentID)
	if err != nil {
		return ProgressSummary{}, err
	}

	var summary ProgressSummary
	err = db.Transaction(func(tx *gorm.DB) error {
		record := courseModels.ContentProgress{
			UserID:          userID,
			CourseContentID: content.ID,
			CourseID:        content.CourseID,
			CompletedAt:     time.Now(),
		}
		// The unique index on (user_id, course_content_id) absorbs duplicates,
		// including a concurrent request that passed the same checks.
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_content_id"}},
			DoNothing: true,
		}).Create(&record)
		if result.Error != nil {
			return Internal(result.Error, "insert progress")
		}

		var sumErr error
		summary, sumErr = CourseProgress(tx, userID, content.CourseID)
		if sumErr != nil {
			return sumErr
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return syncEnrollmentProgress(tx, userID, content.CourseID, summary)
	})
	if err != nil {
		return ProgressSummary{}, err
	}
	return summary, nil
}

// CourseProgress recomputes the summary from progress rows and active content.
// Completions of content that has since been removed are not counted.
func CourseProgress(db *gorm.DB, userID, courseID uint) (ProgressSummary, error) {
	var total int64
	if err := activeContent(db, courseID).Count(&total).Error; err != nil {
		return ProgressSummary{}, Internal(err, "count content")
	}

	var completed int64
	if err := countedProgress(db, userID, courseID).Count(&completed).Error; err != nil {
		return ProgressSummary{}, Internal(err, "count progress")
	}

	return ProgressSummary{
		Completed:  completed,
		Total:      total,
		Percentage: Percentage(completed, total),
	}, nil
}

// CompletedContentIDs returns the set of content ids userID has completed in courseID.
func CompletedContentIDs(db *gorm.DB, userID, courseID uint) (map[uint]bool, error) {
	var ids []uint
	err := countedProgress(db, userID, courseID).
		Pluck("content_progresses.course_content_id", &ids).Error
	if err != nil {
		return nil, Internal(err, "load completed ids")
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// CompletedContents returns progress rows with their content populated, newest first.
// It lists exactly the rows CourseProgress counts.
func CompletedContents(db *gorm.DB, userID, courseID uint) ([]courseModels.ContentProgress, error) {
	var rows []courseModels.ContentProgress
	err := countedProgress(db, userID, courseID).
		Select("content_progresses.*").
		Preload("CourseContent").
		Order("content_progresses.completed_at desc, content_progresses.id desc").
		Find(&rows).Error
	if err != nil {
		return nil, Internal(err, "load completed contents")
	}
	return rows, nil
}

// ActiveContents lists the learner-visible content of a course in display order.
func ActiveContents(db *gorm.DB, courseID uint, freePreviewOnly bool) ([]courseModels.CourseContent, error) {
	query := activeContent(db, courseID)
	if freePreviewOnly {
		query = query.Where("is_free_preview = ?", true)
	}
	var contents []courseModels.CourseContent
	if err := query.Order("order_index asc, id asc").Find(&contents).Error; err != nil {
		return nil, Internal(err, "load contents")
	}
	return contents, nil
}

// countedProgress scopes a user's progress rows to content still visible to learners.
func countedProgress(db *gorm.DB, userID, courseID uint) *gorm.DB {
	return db.Model(&courseModels.ContentProgress{}).
		Joins("JOIN course_contents ON course_contents.id = content_progresses.course_content_id").
		Where("content_progresses.user_id = ? AND content_progresses.course_id = ?", userID, courseID).
		Where("course_contents.is_deleted = ? AND course_contents.is_active = ? AND course_contents.deleted_at IS NULL", false, true)
}

func activeContent(db *gorm.DB, courseID uint) *gorm.DB {
	return db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true)
}

// syncEnrollmentProgress overwrites the cached progress; concurrent writers
// converge because each one writes a freshly recomputed value.
func syncEnrollmentProgress(tx *gorm.DB, userID, courseID uint, summary ProgressSummary) error {
	updates := map[string]interface{}{"progress": summary.Percentage}
	if summary.Total > 0 && summary.Completed == summary.Total {
		updates["is_completed"] = true
		updates["completed_at"] = time.Now()
	}
	err := tx.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(updates).Error
	if err != nil {
		return Internal(err, "update enrollment progress")
	}
	return nil
}
