package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// fileHeader builds a multipart.FileHeader the way gin receives one.
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestDiskStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/api/v1/media/", 1<<20)
	require.NoError(t, err)

	m, err := store.Save(context.Background(), FolderProfilePhoto, fileHeader(t, "profilePhoto", "me.png", pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(m.PublicID, FolderProfilePhoto+"/"))
	assert.True(t, strings.HasSuffix(m.PublicID, ".png"))
	assert.Equal(t, "/api/v1/media/"+m.PublicID, m.URL)

	stored := filepath.Join(dir, filepath.FromSlash(m.PublicID))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), m.PublicID))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), m.PublicID))
}

func TestDiskStoreRejects(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/media", 16)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), FolderProfilePhoto, fileHeader(t, "f", "big.png", bytes.Repeat([]byte("a"), 64)))
	assert.ErrorIs(t, err, ErrTooLarge)

	store.MaxBytes = 1 << 20
	_, err = store.Save(context.Background(), FolderProfilePhoto, fileHeader(t, "f", "notes.txt", []byte("plain text, not an image")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	assert.Error(t, store.Delete(context.Background(), "../../etc/passwd"))
}
