package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	courseModels "trademaster/models/course"
	"trademaster/utils/logger"

	"github.com/gofiber/fiber/v2"
)

const DefaultVideoMimeType = "video/mp4"

// ByteRange is an inclusive byte window.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

// StreamOptions configures ServeFile.
type StreamOptions struct {
	Root        string
	IdleTimeout time.Duration
	CacheMaxAge int
}

// ParseRange parses a single "bytes=start-end" range. ok is false when header
// is empty. The end defaults to the last byte; an end past the file is rejected
// rather than clamped.
func ParseRange(header string, size int64) (ByteRange, bool, error) {
	h := strings.TrimSpace(header)
	if h == "" {
		return ByteRange{}, false, nil
	}
	if !strings.HasPrefix(h, "bytes=") {
		return ByteRange{}, false, RangeNotSatisfiable("unsupported range unit")
	}
	spec := strings.TrimSpace(strings.TrimPrefix(h, "bytes="))
	if strings.Contains(spec, ",") {
		return ByteRange{}, false, RangeNotSatisfiable("multiple ranges not supported")
	}
	bounds := strings.SplitN(spec, "-", 2)
	if len(bounds) != 2 || strings.TrimSpace(bounds[0]) == "" {
		return ByteRange{}, false, RangeNotSatisfiable("range start is required")
	}

	start, err := strconv.ParseInt(strings.TrimSpace(bounds[0]), 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, false, RangeNotSatisfiable("invalid range start")
	}
	end := size - 1
	if e := strings.TrimSpace(bounds[1]); e != "" {
		end, err = strconv.ParseInt(e, 10, 64)
		if err != nil || end < 0 {
			return ByteRange{}, false, RangeNotSatisfiable("invalid range end")
		}
	}

	if start >= size || end >= size || start > end {
		return ByteRange{}, false, RangeNotSatisfiable("range out of bounds")
	}
	return ByteRange{Start: start, End: end}, true, nil
}

// ResolvePath joins a stored relative path onto root and refuses anything
// that escapes it.
func ResolvePath(root, relative string) (string, error) {
	if strings.TrimSpace(relative) == "" || filepath.IsAbs(relative) {
		return "", NotFound("File not found!")
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", Internal(err, "resolve upload root")
	}
	full := filepath.Join(rootAbs, filepath.FromSlash(relative))
	rel, err := filepath.Rel(rootAbs, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", NotFound("File not found!")
	}
	return full, nil
}

// ServeFile writes the stored file of content, honouring a Range header.
// Errors returned happen before any header is written. Once streaming starts,
// read failures are logged by the reader and the transport drops the connection.
func ServeFile(c *fiber.Ctx, content courseModels.CourseContent, opts StreamOptions) error {
	if !content.HasFile() {
		return NotFound("File not found!")
	}
	path, err := ResolvePath(opts.Root, content.FilePath)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		logger.Log.Warn("Stored file missing", "content_id", content.ID, "path", content.FilePath)
		return NotFound("File not found!")
	}
	if err != nil {
		return Internal(err, "open stored file")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return Internal(err, "stat stored file")
	}
	if info.IsDir() {
		file.Close()
		return NotFound("File not found!")
	}
	size := info.Size()

	rng, partial, err := ParseRange(c.Get(fiber.HeaderRange), size)
	if err != nil {
		file.Close()
		c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes */%d", size))
		c.Status(fiber.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	if !partial {
		rng = ByteRange{Start: 0, End: size - 1}
	}

	contentType := content.MimeType
	if contentType == "" {
		contentType = DefaultVideoMimeType
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderAcceptRanges, "bytes")
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("private, max-age=%d", opts.CacheMaxAge))

	log := logger.Log.With("content_id", content.ID, "start", rng.Start, "end", rng.End)
	reader := newIdleReader(file, io.NewSectionReader(file, rng.Start, rng.Length()), opts.IdleTimeout, log)

	if partial {
		c.Status(fiber.StatusPartialContent)
		c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, size))
	} else {
		c.Status(fiber.StatusOK)
	}
	return c.SendStream(reader, int(rng.Length()))
}

// idleReader closes the underlying file when nobody reads from it for idle.
// A stalled client stops the transport from pulling bytes, which trips it.
type idleReader struct {
	file     *os.File
	r        io.Reader
	idle     time.Duration
	timer    *time.Timer
	once     sync.Once
	timedOut atomic.Bool
	log      *logger.Logger
}

func newIdleReader(file *os.File, r io.Reader, idle time.Duration, log *logger.Logger) *idleReader {
	ir := &idleReader{file: file, r: r, idle: idle, log: log}
	if idle > 0 {
		ir.timer = time.AfterFunc(idle, ir.expire)
	}
	return ir
}

func (ir *idleReader) Read(p []byte) (int, error) {
	if ir.timer != nil {
		ir.timer.Reset(ir.idle)
	}
	n, err := ir.r.Read(p)
	if err != nil && err != io.EOF {
		if ir.timedOut.Load() {
			ir.log.Warn("Stream closed after idle timeout", "idle", ir.idle.String())
		} else {
			ir.log.Error("Stream read failed", "error", err)
		}
	}
	return n, err
}

func (ir *idleReader) expire() {
	ir.timedOut.Store(true)
	ir.Close()
}

func (ir *idleReader) Close() error {
	var err error
	ir.once.Do(func() {
		if ir.timer != nil {
			ir.timer.Stop()
		}
		err = ir.file.Close()
	})
	return err
}
