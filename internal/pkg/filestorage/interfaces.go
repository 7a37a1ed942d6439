package filestorage

import (
	"io"
	"mime/multipart"
)

// StoredFile describes bytes persisted by a FileStorage
type StoredFile struct {
	FileName string // generated name, unique within the storage
	Path     string // path relative to the working directory
	FileSize int64
	MimeType string
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save persists an uploaded part under a generated name derived from field
	Save(fileHeader *multipart.FileHeader, field string) (*StoredFile, error)

	// Open returns a reader over a stored file. ErrNotExist is returned for missing files.
	Open(fileName string) (io.ReadSeekCloser, error)

	// Delete removes a stored file. Missing files are not an error.
	Delete(fileName string) error

	// GetFullPath returns the filesystem path for a stored file name
	GetFullPath(fileName string) string
}
