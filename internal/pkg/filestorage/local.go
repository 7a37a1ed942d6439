package filestorage

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yigit/projectdesk/internal/pkg/logger"
)

// ErrNotExist is returned by Open when the stored file is gone
var ErrNotExist = errors.New("stored file does not exist")

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalStorage creates a new LocalStorage rooted at basePath, creating it if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		now:      time.Now,
	}, nil
}

// generateName builds "<field>-<unix millis>-<random>.<ext>"
func (ls *LocalStorage) generateName(field, original string) string {
	return fmt.Sprintf("%s-%d-%d%s", field, ls.now().UnixMilli(), rand.IntN(1_000_000_000), strings.ToLower(filepath.Ext(original)))
}

// Save persists an uploaded part under a generated name
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, field string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	name := ls.generateName(field, fileHeader.Filename)
	dstPath := filepath.Join(ls.basePath, name)

	// O_EXCL keeps a name collision from overwriting another upload.
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	written, err := io.Copy(dst, file)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(fileHeader.Filename))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", name).Int64("size", written).Msg("File saved successfully")
	return &StoredFile{
		FileName: name,
		Path:     dstPath,
		FileSize: written,
		MimeType: mimeType,
	}, nil
}

// Open returns a reader over a stored file
func (ls *LocalStorage) Open(fileName string) (io.ReadSeekCloser, error) {
	path := ls.GetFullPath(fileName)
	if path == "" {
		return nil, ErrNotExist
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return f, nil
}

// Delete removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) Delete(fileName string) error {
	if fileName == "" {
		return nil
	}

	path := ls.GetFullPath(fileName)
	if path == "" {
		return fmt.Errorf("invalid file name: %s", fileName)
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", path).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the full filesystem path for a stored file name.
// Only the base name is used so callers cannot escape the storage root.
func (ls *LocalStorage) GetFullPath(fileName string) string {
	name := filepath.Base(fileName)
	if name == "" || name == "." || name == "/" || name == ".." {
		return ""
	}
	return filepath.Join(ls.basePath, name)
}
