package codec

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func testImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, ext := range []string{"png", "jpg", "webp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "img."+ext)
			if err := Save(testImage(64, 48), path, 90); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			img, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			b := img.Bounds()
			if b.Dx() != 64 || b.Dy() != 48 {
				t.Errorf("expected 64x48, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestSave_UnwritableDir(t *testing.T) {
	err := Save(testImage(8, 8), filepath.Join(t.TempDir(), "missing", "img.png"), 90)
	if !errors.Is(err, ErrWrite) {
		t.Errorf("expected ErrWrite, got %v", err)
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.PNG", ".png"},
		{"a/b/photo.jpeg", ".jpeg"},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := Ext(tt.path); got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("x.jpg") || !IsSupported("x.webp") {
		t.Error("expected jpg/webp to be supported")
	}
	if IsSupported("x.txt") || IsSupported("x") {
		t.Error("expected txt/extensionless to be unsupported")
	}
}
