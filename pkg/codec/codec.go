// Package codec handles image decoding and encoding for the titler
// pipeline. JPEG and PNG go through imaging's registered decoders with
// an explicit WebP fallback for files the standard chain rejects.
package codec

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Static errors for decode/encode failures.
var (
	ErrDecode = errors.New("codec: failed to decode image")
	ErrWrite  = errors.New("codec: failed to write image")
)

// Load decodes an image from a file path with WebP support.
func Load(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err == nil {
			if img, _, err := image.Decode(f); err == nil {
				return img, nil
			}
		}
	} else {
		if _, err := f.Seek(0, 0); err == nil {
			if img, _, err := image.Decode(f); err == nil {
				return img, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unknown format for %s", ErrDecode, path)
}

// Save encodes an image to path, choosing the format by extension:
// .png and .webp keep the alpha channel, everything else is written as
// JPEG with the given quality (alpha flattened by the encoder).
func Save(img image.Image, path string, quality int) error {
	var err error
	switch strings.TrimPrefix(Ext(path), ".") {
	case "webp":
		err = saveWebP(img, path, quality)
	case "png":
		err = imaging.Save(img, path)
	default: // jpg/jpeg
		err = imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}

func saveWebP(img image.Image, path string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return webp.Encode(f, img, &webp.Options{Quality: float32(quality)})
}

// Ext returns the lowercase extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsSupported reports whether the path has a readable image extension.
func IsSupported(path string) bool {
	switch strings.TrimPrefix(Ext(path), ".") {
	case "jpg", "jpeg", "png", "webp", "gif", "bmp", "tiff":
		return true
	}
	return false
}
