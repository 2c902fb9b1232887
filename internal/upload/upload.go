package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/martomarzo/shutupandtakemythings/internal/imaging"
)

// DefaultMaxSize is the largest accepted image, in bytes.
const DefaultMaxSize = 10 << 20

// URLPrefix is the public path uploaded files are served under.
const URLPrefix = "/uploads/"

var (
	ErrUnsupportedMediaType = errors.New("only image files are allowed (jpeg, jpg, png, gif, webp)")
	ErrPayloadTooLarge      = errors.New("file too large")
)

// allowedExt maps accepted file extensions to the decoder format they must contain.
var allowedExt = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".webp": "webp",
}

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store keeps uploaded images as files in a single directory.
type Store struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

// NewStore creates the upload directory if needed. A maxSize of zero uses
// DefaultMaxSize.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize, now: time.Now}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// MaxSize returns the per-file size limit in bytes.
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Accept validates and stores an uploaded image, returning the stored file
// name. The stream is copied to disk, never held in memory.
func (s *Store) Accept(r io.Reader, declaredName, declaredMIME string) (string, error) {
	ext := strings.ToLower(filepath.Ext(declaredName))
	format, ok := allowedExt[ext]
	if !ok {
		return "", ErrUnsupportedMediaType
	}
	mediaType, _, err := mime.ParseMediaType(declaredMIME)
	if err != nil || !allowedMIME[strings.ToLower(mediaType)] {
		return "", ErrUnsupportedMediaType
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	keep := false
	defer func() {
		if !keep {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", ErrPayloadTooLarge
		}
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if n > s.maxSize {
		return "", ErrPayloadTooLarge
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding upload: %w", err)
	}
	info, err := imaging.Detect(tmp)
	if err != nil || info.Format != format {
		return "", ErrUnsupportedMediaType
	}

	if err := tmp.Chmod(0644); err != nil {
		return "", fmt.Errorf("setting upload permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing upload: %w", err)
	}

	name := s.newName(ext)
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	keep = true
	return name, nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *Store) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	path, err := s.Path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting upload: %w", err)
	}
	return nil
}

// Path resolves a stored file name to its location on disk. Names starting
// with a dot are in-progress uploads and never resolve.
func (s *Store) Path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", fmt.Errorf("invalid upload reference %q", ref)
	}
	return filepath.Join(s.dir, ref), nil
}

// newName builds a collision-resistant file name keeping the original extension.
func (s *Store) newName(ext string) string {
	return fmt.Sprintf("item-%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
}

// URL returns the public URL of a stored file.
func URL(ref string) string {
	return URLPrefix + ref
}
