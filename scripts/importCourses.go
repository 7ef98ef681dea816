package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"trademaster/config"
	"trademaster/database"
	"trademaster/models"
	courseModels "trademaster/models/course"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type importResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

func main() {
	file := flag.String("file", "courses.csv", "course catalogue CSV (title,description,price,thumbnail_url,is_published)")
	promote := flag.String("promote", "", "email of a user to grant the ADMIN role")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	if *promote != "" {
		if err := promoteAdmin(db, *promote); err != nil {
			log.Fatalf("Failed to promote %s: %v", *promote, err)
		}
		log.Printf("Promoted %s to ADMIN", *promote)
		return
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer f.Close()

	result, err := importCourses(db, f)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", result.Inserted)
	log.Printf("Updated: %d", result.Updated)
	log.Printf("Skipped: %d", result.Skipped)
}

// importCourses upserts courses keyed by title.
func importCourses(db *gorm.DB, r io.Reader) (importResult, error) {
	var result importResult

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return result, errors.Wrap(err, "read csv")
	}
	if len(records) < 2 {
		return result, errors.New("CSV file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for i, row := range records[1:] {
		title := getField(row, headerIndex, "title")
		price, err := strconv.ParseFloat(getField(row, headerIndex, "price"), 64)
		if title == "" || err != nil || price < 0 {
			log.Printf("Skipping row %d: missing title or invalid price", i+2)
			result.Skipped++
			continue
		}
		published, _ := strconv.ParseBool(getField(row, headerIndex, "is_published"))

		var existing courseModels.Course
		err = db.Where("title = ? AND is_deleted = ?", title, false).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			course := courseModels.Course{
				Title:        title,
				Description:  getField(row, headerIndex, "description"),
				Price:        price,
				ThumbnailURL: getField(row, headerIndex, "thumbnail_url"),
				IsPublished:  published,
			}
			if err := db.Create(&course).Error; err != nil {
				return result, errors.Wrapf(err, "insert %q", title)
			}
			result.Inserted++
			continue
		}
		if err != nil {
			return result, errors.Wrapf(err, "load %q", title)
		}

		existing.Description = getField(row, headerIndex, "description")
		existing.Price = price
		existing.ThumbnailURL = getField(row, headerIndex, "thumbnail_url")
		existing.IsPublished = published
		if err := db.Save(&existing).Error; err != nil {
			return result, errors.Wrapf(err, "update %q", title)
		}
		result.Updated++
	}
	return result, nil
}

func promoteAdmin(db *gorm.DB, email string) error {
	res := db.Model(&models.User{}).
		Where("email = ? AND is_deleted = ?", strings.ToLower(strings.TrimSpace(email)), false).
		Update("role", models.RoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
