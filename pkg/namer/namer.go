// Package namer computes collision-safe destination paths for labeled
// output images.
//
// The candidate name inserts "_labeled" before the extension. When the
// candidate already exists the decision is delegated to a Chooser
// capability so the core stays free of console I/O; an existing file is
// never overwritten silently. Auto-rename treats "_labeled" as the
// base name: the first numbered variant is "_labeled_1".
package namer

import (
	"errors"
	"fmt"

	"github.com/menta2k/image-titler/internal/utils"
)

// Suffix inserted before the extension of every output file.
const Suffix = "_labeled"

// ErrSkipped is returned when the chooser cancels the item.
var ErrSkipped = errors.New("namer: output skipped")

// Choice is a collision resolution decision.
type Choice int

const (
	Cancel Choice = iota + 1
	Overwrite
	Rename
)

// Chooser decides how to handle an existing output file.
type Chooser interface {
	Choose(path string) (Choice, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(path string) (Choice, error)

func (f ChooserFunc) Choose(path string) (Choice, error) { return f(path) }

// Candidate derives the labeled output path from an input path.
func Candidate(inputPath string) string {
	stem, ext := utils.SplitExt(inputPath)
	return stem + Suffix + ext
}

// Resolve returns the path to write to. If the candidate is free it is
// returned as-is; otherwise the chooser picks cancel (ErrSkipped),
// overwrite, or rename to the first free numbered variant.
//
// The existence check races with concurrent external writers by
// design; single-process batch use is assumed.
func Resolve(candidate string, chooser Chooser) (string, error) {
	if !utils.FileExists(candidate) {
		return candidate, nil
	}

	choice, err := chooser.Choose(candidate)
	if err != nil {
		return "", fmt.Errorf("namer: collision prompt: %w", err)
	}

	switch choice {
	case Cancel:
		return "", ErrSkipped
	case Overwrite:
		return candidate, nil
	case Rename:
		return nextFree(candidate), nil
	default:
		return "", fmt.Errorf("namer: unknown choice %d", choice)
	}
}

// nextFree appends the smallest positive integer that makes the path
// unused, starting at 1.
func nextFree(candidate string) string {
	stem, ext := utils.SplitExt(candidate)
	for n := 1; ; n++ {
		path := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !utils.FileExists(path) {
			return path
		}
	}
}
