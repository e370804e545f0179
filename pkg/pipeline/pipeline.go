// Package pipeline drives the batch: each input image is decoded,
// composited, named and written independently, so one bad input never
// stops the rest.
package pipeline

import (
	"errors"
	"log/slog"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/pkg/codec"
	"github.com/menta2k/image-titler/pkg/compositor"
	"github.com/menta2k/image-titler/pkg/fontfind"
	"github.com/menta2k/image-titler/pkg/namer"
)

// Kind classifies a per-item outcome.
type Kind int

const (
	OK Kind = iota
	Skipped
	DecodeFailed
	LogoFailed
	FontFailed
	TextFitFailed
	WriteFailed
)

// Result is the outcome of processing one input image.
type Result struct {
	Path   string // input path
	Output string // written output path, empty unless OK
	Kind   Kind
	Err    error
}

// Runner processes an ordered list of input images with one shared
// configuration. Processing is sequential; the font index is the only
// shared resource and is read-only.
type Runner struct {
	opts    config.Options
	comp    *compositor.Compositor
	chooser namer.Chooser
	logger  *slog.Logger
}

// NewRunner creates a Runner. The chooser is consulted whenever an
// output path collides with an existing file.
func NewRunner(opts config.Options, fonts *fontfind.Index, chooser namer.Chooser, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		opts:    opts,
		comp:    compositor.New(opts, fonts, logger),
		chooser: chooser,
		logger:  logger,
	}
}

// Run processes every path in order and returns one Result per input.
func (r *Runner) Run(paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, r.processOne(path))
	}
	return results
}

func (r *Runner) processOne(path string) Result {
	src, err := codec.Load(path)
	if err != nil {
		r.logger.Error("decode failed", "path", path, "error", err)
		return Result{Path: path, Kind: DecodeFailed, Err: err}
	}

	out, err := r.comp.Compose(src)
	if err != nil {
		r.logger.Error("compositing failed", "path", path, "error", err)
		return Result{Path: path, Kind: classify(err), Err: err}
	}

	dest, err := namer.Resolve(namer.Candidate(path), r.chooser)
	if errors.Is(err, namer.ErrSkipped) {
		r.logger.Info("skipped", "path", path)
		return Result{Path: path, Kind: Skipped, Err: err}
	}
	if err != nil {
		return Result{Path: path, Kind: WriteFailed, Err: err}
	}

	if err := codec.Save(out, dest, r.opts.Quality); err != nil {
		r.logger.Error("write failed", "path", dest, "error", err)
		return Result{Path: path, Kind: WriteFailed, Err: err}
	}

	r.logger.Info("processed", "path", path, "output", dest)
	return Result{Path: path, Output: dest, Kind: OK}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, compositor.ErrLogoLoad):
		return LogoFailed
	case errors.Is(err, compositor.ErrTextDoesNotFit):
		return TextFitFailed
	case errors.Is(err, fontfind.ErrFontNotFound):
		return FontFailed
	case errors.Is(err, codec.ErrDecode):
		return DecodeFailed
	default:
		return WriteFailed
	}
}

// Summary aggregates per-item outcomes.
type Summary struct {
	OK      int
	Skipped int
	Failed  int
}

// Summarize counts results by outcome. User-cancelled skips are not
// failures.
func Summarize(results []Result) Summary {
	var s Summary
	for _, res := range results {
		switch res.Kind {
		case OK:
			s.OK++
		case Skipped:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}
