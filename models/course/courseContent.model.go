package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContentTypeVideo      = "VIDEO"
	ContentTypeDocument   = "DOCUMENT"
	ContentTypeQuiz       = "QUIZ"
	ContentTypeAssignment = "ASSIGNMENT"
)

// CourseContent is one addressable unit of course material
type CourseContent struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ContentType   string `json:"content_type" gorm:"default:'VIDEO'"` // VIDEO, DOCUMENT, QUIZ, ASSIGNMENT
	OrderIndex    int    `json:"order_index" gorm:"default:1"`        // display order within course
	IsFreePreview bool   `json:"is_free_preview" gorm:"default:false"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
	ExternalURL   string `json:"external_url"`

	// Stored file descriptor. FilePath is relative to the upload root.
	FilePath string `json:"-"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`

	// Tombstone for the two-phase delete.
	IsDeleted bool `json:"-" gorm:"index;default:false"`
}

// HasFile reports whether a stored file descriptor is attached.
func (c CourseContent) HasFile() bool {
	return c.FilePath != ""
}

// ContentProgress marks that a user completed one content item.
// Rows are unique per (user, content) and never updated.
type ContentProgress struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	UserID          uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_content"`
	CourseContentID uint          `json:"course_content_id" gorm:"not null;uniqueIndex:idx_progress_user_content"`
	CourseID        uint          `json:"course_id" gorm:"index;not null"`
	CompletedAt     time.Time     `json:"completed_at"`
	CreatedAt       time.Time     `json:"created_at"`
	CourseContent   CourseContent `json:"course_content,omitempty" gorm:"foreignKey:CourseContentID;constraint:OnDelete:CASCADE"`
}
