package imagetitler

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/pkg/codec"
	"github.com/menta2k/image-titler/pkg/namer"
	"github.com/menta2k/image-titler/pkg/pipeline"
)

// createTestImage creates a simple test image
func createTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x % 256), uint8(y % 256), 90, 255})
		}
	}
	if err := codec.Save(img, path, 90); err != nil {
		t.Fatal(err)
	}
}

func TestNew(t *testing.T) {
	titler := New()
	if titler == nil {
		t.Fatal("New() returned nil")
	}

	opts := titler.Options()
	if opts.Transparency != 20 {
		t.Errorf("expected default transparency 20, got %d", opts.Transparency)
	}
	if !opts.Crop {
		t.Error("expected cropping enabled by default")
	}
}

func TestNewWithOptions_Invalid(t *testing.T) {
	opts := config.Defaults()
	opts.Transparency = 150

	if _, err := NewWithOptions(opts); err == nil {
		t.Error("expected error for out-of-range transparency")
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	createTestImage(t, in, 800, 600)

	opts := config.Defaults()
	opts.Text = "Hello"

	titler, err := NewWithOptions(opts, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	out, err := titler.ProcessFile(in)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if out != filepath.Join(dir, "photo_labeled.png") {
		t.Errorf("unexpected output path %s", out)
	}

	img, err := codec.Load(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if img.Bounds().Dx() != 1920 || img.Bounds().Dy() != 1080 {
		t.Errorf("expected 1920x1080 output, got %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestProcess_Batch(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.png")
	second := filepath.Join(dir, "b.jpg")
	createTestImage(t, first, 320, 240)
	createTestImage(t, second, 640, 360)

	titler, err := NewWithOptions(config.Defaults(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	overwrite := namer.ChooserFunc(func(string) (namer.Choice, error) {
		return namer.Overwrite, nil
	})

	results := titler.Process([]string{first, second}, overwrite)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	s := pipeline.Summarize(results)
	if s.OK != 2 || s.Failed != 0 {
		t.Errorf("expected 2 successes, got %+v", s)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("GetVersion() = %s, expected %s", GetVersion(), Version)
	}
}
