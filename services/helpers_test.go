package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"trademaster/database"
	"trademaster/models"
	courseModels "trademaster/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Learner", Email: email, Role: models.RoleUser, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, price float64) courseModels.Course {
	t.Helper()
	course := courseModels.Course{Title: "Options Basics", Price: price, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func createContent(t *testing.T, db *gorm.DB, courseID uint, order int, freePreview bool) courseModels.CourseContent {
	t.Helper()
	content := courseModels.CourseContent{
		CourseID:      courseID,
		Title:         "Lesson",
		ContentType:   courseModels.ContentTypeVideo,
		OrderIndex:    order,
		IsFreePreview: freePreview,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&content).Error)
	return content
}

func createEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint, status string) courseModels.Enrollment {
	t.Helper()
	enrollment := courseModels.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		PaymentStatus: status,
		EnrolledAt:    time.Now(),
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

// writeFile creates root/relative with the given bytes.
func writeFile(t *testing.T, root, relative string, data []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, data, 0644))
}
