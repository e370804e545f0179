package pipeline

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/pkg/codec"
	"github.com/menta2k/image-titler/pkg/fontfind"
	"github.com/menta2k/image-titler/pkg/namer"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 77, 255})
		}
	}
	require.NoError(t, codec.Save(img, path, 90))
}

func renameChooser() namer.Chooser {
	return namer.ChooserFunc(func(string) (namer.Choice, error) {
		return namer.Rename, nil
	})
}

func newRunner(t *testing.T, opts config.Options) *Runner {
	t.Helper()
	return NewRunner(opts, fontfind.NewIndex(t.TempDir()), renameChooser(), nil)
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writeTestImage(t, in, 640, 480)

	opts := config.Defaults()
	opts.Text = "Hello"

	results := newRunner(t, opts).Run([]string{in})
	require.Len(t, results, 1)

	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, OK, res.Kind)
	assert.Equal(t, filepath.Join(dir, "photo_labeled.png"), res.Output)

	out, err := codec.Load(res.Output)
	require.NoError(t, err)
	assert.Equal(t, 1920, out.Bounds().Dx())
	assert.Equal(t, 1080, out.Bounds().Dy())
}

func TestRun_BadInputDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))
	good := filepath.Join(dir, "good.jpg")
	writeTestImage(t, good, 320, 240)

	results := newRunner(t, config.Defaults()).Run([]string{bad, good})
	require.Len(t, results, 2)

	assert.Equal(t, DecodeFailed, results[0].Kind)
	assert.Error(t, results[0].Err)

	assert.Equal(t, OK, results[1].Kind)
	assert.FileExists(t, filepath.Join(dir, "good_labeled.jpg"))
}

func TestRun_LogoFailureIsItemScoped(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writeTestImage(t, in, 320, 240)

	opts := config.Defaults()
	opts.LogoPath = filepath.Join(dir, "missing-logo.png")

	results := newRunner(t, opts).Run([]string{in})
	require.Len(t, results, 1)
	assert.Equal(t, LogoFailed, results[0].Kind)
}

func TestRun_CollisionRenames(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writeTestImage(t, in, 320, 240)
	writeTestImage(t, filepath.Join(dir, "photo_labeled.png"), 8, 8)

	results := newRunner(t, config.Defaults()).Run([]string{in})
	require.Len(t, results, 1)
	assert.Equal(t, OK, results[0].Kind)
	assert.Equal(t, filepath.Join(dir, "photo_labeled_1.png"), results[0].Output)
}

func TestRun_CollisionCancelSkips(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writeTestImage(t, in, 320, 240)
	writeTestImage(t, filepath.Join(dir, "photo_labeled.png"), 8, 8)

	cancel := namer.ChooserFunc(func(string) (namer.Choice, error) {
		return namer.Cancel, nil
	})
	runner := NewRunner(config.Defaults(), fontfind.NewIndex(t.TempDir()), cancel, nil)

	results := runner.Run([]string{in})
	require.Len(t, results, 1)
	assert.Equal(t, Skipped, results[0].Kind)
}

func TestRun_OutputFormatFollowsInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.webp")
	writeTestImage(t, in, 320, 240)

	results := newRunner(t, config.Defaults()).Run([]string{in})
	require.Len(t, results, 1)
	require.Equal(t, OK, results[0].Kind)
	assert.Equal(t, ".webp", filepath.Ext(results[0].Output))
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Kind: OK},
		{Kind: OK},
		{Kind: Skipped},
		{Kind: DecodeFailed},
		{Kind: TextFitFailed},
	}

	s := Summarize(results)
	assert.Equal(t, 2, s.OK)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 2, s.Failed)
}
