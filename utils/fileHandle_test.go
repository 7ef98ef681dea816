package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, CategoryVideos, CategoryFor("video/mp4"))
	assert.Equal(t, CategoryVideos, CategoryFor(" VIDEO/WEBM "))
	assert.Equal(t, CategoryThumbnails, CategoryFor("image/png"))
	assert.Equal(t, CategoryDocuments, CategoryFor("application/pdf"))
	assert.Equal(t, CategoryDocuments, CategoryFor("application/vnd.openxmlformats-officedocument.presentationml.presentation"))
	assert.Equal(t, CategoryOthers, CategoryFor("application/zip"))
}

func TestStoredName(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9_-]+-[0-9a-f-]{36}\.mp4$`)

	name := StoredName("My Lesson (final).MP4")
	assert.Regexp(t, pattern, name)
	assert.True(t, strings.HasPrefix(name, "My-Lesson-final-"))

	assert.NotEqual(t, StoredName("a.mp4"), StoredName("a.mp4"))
	assert.True(t, strings.HasPrefix(StoredName("../../.mp4"), "file-"))
	assert.LessOrEqual(t, len(strings.SplitN(StoredName(strings.Repeat("x", 100)+".mp4"), "-", 2)[0]), 40)
}

func fileHeader(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, "image/png", DetectMimeType(fileHeader(t, "x.bin", "image/png", []byte("x"))))
	assert.Equal(t, "video/mp4", DetectMimeType(fileHeader(t, "clip.MP4", "application/octet-stream", []byte("x"))))
	assert.Equal(t, "application/pdf", DetectMimeType(fileHeader(t, "notes.pdf", "", []byte("x"))))
}

func TestSaveUploadedFile(t *testing.T) {
	root := t.TempDir()
	header := fileHeader(t, "Intro.mp4", "video/mp4", []byte("movie-bytes"))

	stored, err := SaveUploadedFile(header, root)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Path, "videos/Intro-"))
	assert.Equal(t, "Intro.mp4", stored.Name)
	assert.EqualValues(t, 11, stored.Size)
	assert.Equal(t, "video/mp4", stored.MimeType)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored.Path)))
	require.NoError(t, err)
	assert.Equal(t, "movie-bytes", string(data))
}
