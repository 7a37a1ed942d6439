package filestorage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="documentFile"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["documentFile"][0]
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ls.now = func() time.Time { return time.UnixMilli(1700000000123) }

	stored, err := ls.Save(newFileHeader(t, "Report.PDF", "application/pdf", []byte("%PDF-1.4")), "documentFile")
	require.NoError(t, err)

	assert.Regexp(t, `^documentFile-1700000000123-\d+\.pdf$`, stored.FileName)
	assert.Equal(t, int64(8), stored.FileSize)
	assert.Equal(t, "application/pdf", stored.MimeType)
	assert.FileExists(t, filepath.Join(dir, stored.FileName))

	rc, err := ls.Open(stored.FileName)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, ls.Delete(stored.FileName))
	assert.NoFileExists(t, filepath.Join(dir, stored.FileName))

	// second delete is a no-op
	assert.NoError(t, ls.Delete(stored.FileName))

	_, err = ls.Open(stored.FileName)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStorage_MimeFallback(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	stored, err := ls.Save(newFileHeader(t, "notes.bin", "", []byte{1, 2, 3}), "documentFile")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", stored.MimeType)
}

func TestLocalStorage_GetFullPathStaysInRoot(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "passwd"), ls.GetFullPath("../../etc/passwd"))
	assert.Empty(t, ls.GetFullPath(".."))

	_, err = ls.Open("..")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
