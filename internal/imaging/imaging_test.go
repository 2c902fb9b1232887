package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, testImage(w, h))
	return buf.Bytes()
}

func createTestGIF(w, h int) []byte {
	var buf bytes.Buffer
	gif.Encode(&buf, testImage(w, h), nil)
	return buf.Bytes()
}

// minimalWebP is a 1x1 lossless WebP.
var minimalWebP = []byte{
	0x52, 0x49, 0x46, 0x46, 0x1a, 0x00, 0x00, 0x00,
	0x57, 0x45, 0x42, 0x50, 0x56, 0x50, 0x38, 0x4c,
	0x0d, 0x00, 0x00, 0x00, 0x2f, 0x00, 0x00, 0x00,
	0x10, 0x07, 0x10, 0x11, 0x11, 0x88, 0x88, 0xfe,
	0x07, 0x00,
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
		mime   string
		w, h   int
	}{
		{"jpeg", createTestJPEG(40, 30), "jpeg", "image/jpeg", 40, 30},
		{"png", createTestPNG(20, 10), "png", "image/png", 20, 10},
		{"gif", createTestGIF(8, 8), "gif", "image/gif", 8, 8},
		{"webp", minimalWebP, "webp", "image/webp", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Detect(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if info.Format != tt.format || info.MIME != tt.mime {
				t.Errorf("expected %s/%s, got %s/%s", tt.format, tt.mime, info.Format, info.MIME)
			}
			if info.Width != tt.w || info.Height != tt.h {
				t.Errorf("expected %dx%d, got %dx%d", tt.w, tt.h, info.Width, info.Height)
			}
		})
	}
}

func TestDetectRejectsNonImage(t *testing.T) {
	inputs := map[string][]byte{
		"text":       []byte("not an image"),
		"executable": []byte("MZ\x90\x00\x03\x00\x00\x00"),
		"empty":      nil,
	}

	for name, data := range inputs {
		_, err := Detect(bytes.NewReader(data))
		if !errors.Is(err, ErrUnrecognized) {
			t.Errorf("%s: expected ErrUnrecognized, got %v", name, err)
		}
	}
}
