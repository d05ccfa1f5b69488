package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/justsurfingit/jobster-api/internal/models"
)

// Folders group uploads by purpose.
const (
	FolderResume       = "resumes"
	FolderProfilePhoto = "profile_photos"
	FolderCompanyLogo  = "company_logos"
)

var (
	ErrTooLarge        = errors.New("file exceeds the upload limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowed = map[string][]string{
	FolderResume:       {"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "text/plain"},
	FolderProfilePhoto: {"image/jpeg", "image/png", "image/webp", "image/gif"},
	FolderCompanyLogo:  {"image/jpeg", "image/png", "image/webp", "image/gif", "image/svg+xml"},
}

// Store persists uploaded files and hands back a reference to them.
type Store interface {
	Save(ctx context.Context, folder string, file *multipart.FileHeader) (models.Media, error)
	Delete(ctx context.Context, publicID string) error
}

// DiskStore keeps uploads under a local directory that the HTTP layer
// serves at BaseURL.
type DiskStore struct {
	Dir      string
	BaseURL  string
	MaxBytes int64
}

func NewDiskStore(dir, baseURL string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), MaxBytes: maxBytes}, nil
}

func (s *DiskStore) Save(ctx context.Context, folder string, file *multipart.FileHeader) (models.Media, error) {
	if err := ctx.Err(); err != nil {
		return models.Media{}, err
	}
	if s.MaxBytes > 0 && file.Size > s.MaxBytes {
		return models.Media{}, ErrTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return models.Media{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	limit := s.MaxBytes
	if limit <= 0 {
		limit = file.Size
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return models.Media{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return models.Media{}, ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowed[folder]...) {
		return models.Media{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	publicID := path.Join(folder, uuid.NewString()+mtype.Extension())
	target := filepath.Join(s.Dir, filepath.FromSlash(publicID))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return models.Media{}, fmt.Errorf("create media folder: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return models.Media{}, fmt.Errorf("write upload: %w", err)
	}

	return models.Media{PublicID: publicID, URL: s.BaseURL + "/" + publicID}, nil
}

// Delete removes a stored object. Missing objects are not an error.
func (s *DiskStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	clean := path.Clean(publicID)
	if strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return fmt.Errorf("invalid media id %q", publicID)
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
