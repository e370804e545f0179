// Package imagetitler overlays a logo and right-aligned text on a
// semi-transparent bar atop images resized to a 1920x1080 frame, for
// use as video-conferencing backgrounds.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//		"github.com/menta2k/image-titler"
//	)
//
//	func main() {
//		titler := imagetitler.New()
//
//		opts := titler.Options()
//		opts.LogoPath = "logo.png"
//		opts.Text = "Team Meeting"
//
//		titler, err := imagetitler.NewWithOptions(opts)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		out, err := titler.ProcessFile("background.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("wrote %s", out)
//	}
//
// The package consists of five main components:
//
// 1. Geometry (pkg/geometry): frame, bar and viewport arithmetic
// 2. Fontfind (pkg/fontfind): installed-font lookup with a regular-cut preference
// 3. Compositor (pkg/compositor): the layout and compositing sequence
// 4. Namer (pkg/namer): collision-safe "_labeled" output naming
// 5. Pipeline (pkg/pipeline): sequential batch driver with per-item results
//
// Output preserves the input format (JPEG, PNG or WebP); the logo keeps
// its alpha channel when composited. All compositing is deterministic:
// the same input and options always produce byte-identical output.
package imagetitler

import (
	"fmt"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/pkg/fontfind"
	"github.com/menta2k/image-titler/pkg/namer"
	"github.com/menta2k/image-titler/pkg/pipeline"
)

// Version of the image titler library
const Version = "1.0.0"

// Titler provides a high-level interface for labeling images.
type Titler struct {
	opts  config.Options
	fonts *fontfind.Index
}

// New creates a Titler with default options and the platform font
// directories.
func New() *Titler {
	return &Titler{
		opts:  config.Defaults(),
		fonts: fontfind.NewIndex(),
	}
}

// NewWithOptions creates a Titler with custom options, validated once
// up front.
func NewWithOptions(opts config.Options, fontDirs ...string) (*Titler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Titler{
		opts:  opts,
		fonts: fontfind.NewIndex(fontDirs...),
	}, nil
}

// Options returns a copy of the active render options.
func (t *Titler) Options() config.Options {
	return t.opts
}

// Process labels every input path with the shared options. The chooser
// is consulted on output collisions; one Result is returned per input
// and a failed item never aborts the rest.
func (t *Titler) Process(paths []string, chooser namer.Chooser) []pipeline.Result {
	runner := pipeline.NewRunner(t.opts, t.fonts, chooser, nil)
	return runner.Run(paths)
}

// ProcessFile labels a single image, auto-renaming on collision, and
// returns the written output path.
func (t *Titler) ProcessFile(path string) (string, error) {
	autoRename := namer.ChooserFunc(func(string) (namer.Choice, error) {
		return namer.Rename, nil
	})

	results := t.Process([]string{path}, autoRename)
	res := results[0]
	if res.Err != nil {
		return "", fmt.Errorf("process %s: %w", path, res.Err)
	}
	return res.Output, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
