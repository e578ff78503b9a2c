// Package image loads the images palette sources work from, either local
// files or HTTP(S) URLs, and prepares them for extraction or upload.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // Register GIF format
	"image/jpeg"
	_ "image/png" // Register PNG format
	"io"
	"os"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/recolour/internal/util/http"
)

const (
	// DefaultJPEGQuality is the quality used when re-encoding images for upload.
	DefaultJPEGQuality = 90

	// DefaultMaxSide bounds the longest side of images sent to the palette
	// service or clustered locally.
	DefaultMaxSide = 1024
)

// Load reads an image from a local path or an HTTP(S) URL.
// Supported formats: JPEG, PNG, GIF, WebP.
func Load(ctx context.Context, path string) (image.Image, error) {
	if IsURL(path) {
		data, err := httputil.Fetch(ctx, path, httputil.FetchOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return Decode(bytes.NewReader(data))
	}

	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Decode(file)
}

// Validate checks that path is an HTTP(S) URL or a readable file whose
// header decodes as a supported image. URLs are not fetched.
func Validate(path string) error {
	if IsURL(path) {
		return nil
	}

	file, err := openFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return nil
}

// openFile opens a regular file, rejecting empty paths and directories.
func openFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("image file not found: %s", path)
	case err != nil:
		return nil, fmt.Errorf("failed to access image path: %w", err)
	case info.IsDir():
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return file, nil
}

// Decode decodes an image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// Fit scales img down so neither side exceeds maxSide, keeping its aspect
// ratio. Smaller images, and a maxSide of zero or less, return img unchanged.
func Fit(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}

	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodeJPEG encodes img as JPEG. A quality of zero uses DefaultJPEGQuality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
