package main

import (
	"strings"
	"testing"
	"trademaster/database"
	"trademaster/models"
	courseModels "trademaster/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCoursesUpsertsByTitle(t *testing.T) {
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	csvData := `title,description,price,thumbnail_url,is_published
Options 101,Basics,999,,true
Swing Trading,,abc,,false
,No title,10,,true
`
	result, err := importCourses(db, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, importResult{Inserted: 1, Skipped: 2}, result)

	result, err = importCourses(db, strings.NewReader("Title,Price,Is_Published\nOptions 101,499,false\n"))
	require.NoError(t, err)
	assert.Equal(t, importResult{Updated: 1}, result)

	var course courseModels.Course
	require.NoError(t, db.Where("title = ?", "Options 101").First(&course).Error)
	assert.Equal(t, 499.0, course.Price)
	assert.False(t, course.IsPublished)

	_, err = importCourses(db, strings.NewReader("title,price\n"))
	assert.Error(t, err)
}

func TestPromoteAdmin(t *testing.T) {
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Name: "Ops", Email: "ops@example.com", Password: "x"}).Error)

	require.NoError(t, promoteAdmin(db, " OPS@example.com "))
	var user models.User
	require.NoError(t, db.Where("email = ?", "ops@example.com").First(&user).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)

	assert.Error(t, promoteAdmin(db, "nobody@example.com"))
}
