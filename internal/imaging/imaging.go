package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

// ErrUnrecognized is returned when the data is not a supported image.
var ErrUnrecognized = errors.New("unrecognized image format")

// MIME maps decoder format names to their canonical MIME type.
var MIME = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Info describes a detected image.
type Info struct {
	Format string
	MIME   string
	Width  int
	Height int
}

// Detect identifies the image format by decoding only its header, so the
// pixel data is never loaded. The client's declared type is not consulted.
func Detect(r io.Reader) (*Info, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognized, err)
	}

	mime, ok := MIME[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognized, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnrecognized)
	}

	return &Info{
		Format: format,
		MIME:   mime,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
