package utils

import (
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"trademaster/services"

	"github.com/google/uuid"
)

const (
	CategoryVideos     = "videos"
	CategoryDocuments  = "documents"
	CategoryThumbnails = "thumbnails"
	CategoryOthers     = "others"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// mediaTypes covers course formats the platform mime table may not know.
var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".pdf":  "application/pdf",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// CategoryFor picks the storage partition for a media type.
func CategoryFor(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "video/"):
		return CategoryVideos
	case strings.HasPrefix(mt, "image/"):
		return CategoryThumbnails
	case mt == "application/pdf",
		strings.HasPrefix(mt, "text/"),
		strings.Contains(mt, "msword"),
		strings.Contains(mt, "officedocument"),
		strings.Contains(mt, "presentation"):
		return CategoryDocuments
	default:
		return CategoryOthers
	}
}

// DetectMimeType prefers the client header and falls back to the extension.
func DetectMimeType(file *multipart.FileHeader) string {
	if ct := strings.TrimSpace(file.Header.Get("Content-Type")); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if known, ok := mediaTypes[ext]; ok {
		return known
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// StoredName builds "<sanitised-base>-<uuid><ext>" so uploads never collide.
func StoredName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "-"), "-")
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "" {
		base = "file"
	}
	return base + "-" + uuid.NewString() + ext
}

// SaveUploadedFile writes an upload under root/<category>/ and returns its descriptor.
func SaveUploadedFile(file *multipart.FileHeader, root string) (services.StoredFile, error) {
	src, err := file.Open()
	if err != nil {
		return services.StoredFile{}, err
	}
	defer src.Close()

	mimeType := DetectMimeType(file)
	category := CategoryFor(mimeType)

	destDir := filepath.Join(root, category)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return services.StoredFile{}, err
	}

	name := StoredName(file.Filename)
	dst, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return services.StoredFile{}, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		return services.StoredFile{}, err
	}

	return services.StoredFile{
		Path:     path.Join(category, name),
		Name:     filepath.Base(file.Filename),
		Size:     written,
		MimeType: mimeType,
	}, nil
}
