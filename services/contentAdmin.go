package services

import (
	"os"
	courseModels "trademaster/models/course"
	"trademaster/utils/logger"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// StoredFile describes a file persisted under the upload root.
type StoredFile struct {
	Path     string // relative to the upload root
	Name     string // original client filename
	Size     int64
	MimeType string
}

// Attach copies a stored-file descriptor onto content.
func (f StoredFile) Attach(content *courseModels.CourseContent) {
	content.FilePath = f.Path
	content.FileName = f.Name
	content.FileSize = f.Size
	content.MimeType = f.MimeType
}

// RemoveStoredFile unlinks a stored file. A file that is already gone counts as removed.
func RemoveStoredFile(root, relative string) error {
	if relative == "" {
		return nil
	}
	path, err := ResolvePath(root, relative)
	if err != nil {
		// Nothing under root is referenced.
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", relative)
	}
	return nil
}

// ReplaceFile points content at a new stored file, then drops the old one.
// The old file is only unlinked once the record no longer references it.
func ReplaceFile(db *gorm.DB, root string, content *courseModels.CourseContent, file StoredFile) error {
	oldPath := content.FilePath
	file.Attach(content)
	if err := db.Save(content).Error; err != nil {
		return Internal(err, "save content")
	}
	if oldPath != "" && oldPath != file.Path {
		if err := RemoveStoredFile(root, oldPath); err != nil {
			logger.Log.Warn("Failed to remove replaced file", "content_id", content.ID, "path", oldPath, "error", err)
		}
	}
	return nil
}

// DeleteContent removes a content item in two phases: tombstone the row, unlink
// the file, then hard-delete the row. If the unlink fails the tombstone stays
// and SweepTombstones retries later; the item is already invisible to learners.
func DeleteContent(db *gorm.DB, root string, contentID uint) error {
	var content courseModels.CourseContent
	err := db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("Content not found!")
	}
	if err != nil {
		return Internal(err, "load content")
	}

	if err := db.Model(&content).Update("is_deleted", true).Error; err != nil {
		return Internal(err, "tombstone content")
	}

	if err := finishDelete(db, root, content); err != nil {
		logger.Log.Warn("Content tombstoned, cleanup deferred", "content_id", content.ID, "error", err)
	}
	return nil
}

// SweepTombstones retries the unlink and hard delete for every tombstoned row.
// It returns how many rows were fully removed.
func SweepTombstones(db *gorm.DB, root string) (int, error) {
	var pending []courseModels.CourseContent
	if err := db.Unscoped().Where("is_deleted = ?", true).Find(&pending).Error; err != nil {
		return 0, Internal(err, "load tombstones")
	}

	removed := 0
	for _, content := range pending {
		if err := finishDelete(db, root, content); err != nil {
			logger.Log.Warn("Tombstone cleanup failed", "content_id", content.ID, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func finishDelete(db *gorm.DB, root string, content courseModels.CourseContent) error {
	if err := RemoveStoredFile(root, content.FilePath); err != nil {
		return err
	}
	if err := db.Unscoped().Delete(&courseModels.CourseContent{}, content.ID).Error; err != nil {
		return errors.Wrap(err, "hard delete content")
	}
	return nil
}
