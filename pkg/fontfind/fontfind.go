// Package fontfind locates installed system fonts by family name and
// builds sized faces on demand.
//
// Matching is filename based: candidate files are scored so that
// regular/normal cuts win over bold, italic and other stylized
// variants, with a deterministic tie-break. When nothing matches, the
// embedded Go Regular face is used so text rendering always has a
// working fallback.
package fontfind

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ErrFontNotFound is returned only when even the embedded fallback
// face cannot be used.
var ErrFontNotFound = errors.New("fontfind: no usable font found")

// Style names preferred when several cuts of a family match, from most
// to least preferred.
var stylePriorities = []string{
	"regular", "rg", "normal", "book", "medium", "roman", "standard",
}

// Stylized variants penalized unless the request names them.
var variantStyles = []string{
	"italic", "oblique", "bold", "light", "thin", "heavy", "black",
	"condensed", "expanded", "narrow", "wide",
}

// DefaultDirs returns the platform's font directories.
func DefaultDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	default:
		home, _ := os.UserHomeDir()
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
		}
	}
}

// Index is a read-only catalog of installed font files. Build it once
// and share it freely; it is never mutated after construction.
type Index struct {
	files []string // .ttf/.otf paths
}

// NewIndex walks the given directories (DefaultDirs when none are
// given) and collects every TrueType/OpenType file. Missing
// directories are skipped silently.
func NewIndex(dirs ...string) *Index {
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}

	ix := &Index{}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".ttf", ".otf":
				ix.files = append(ix.files, path)
			}
			return nil
		})
	}
	slog.Debug("font index built", "dirs", dirs, "files", len(ix.files))
	return ix
}

// Len returns the number of indexed font files.
func (ix *Index) Len() int {
	return len(ix.files)
}

// Font is a resolved font resource. Sized faces are derived from it on
// demand.
type Font struct {
	Family string
	Path   string // empty for the embedded fallback
	sfnt   *opentype.Font
}

// Face builds a sized instance of the font.
func (f *Font) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("fontfind: create face for %q at %g: %w", f.Family, size, err)
	}
	return face, nil
}

// Resolve returns the best matching non-stylized font file for the
// requested family, falling back to the embedded Go Regular face when
// nothing in the index matches. The result is deterministic for a
// given family and index.
func (ix *Index) Resolve(family string) (*Font, error) {
	matches := ix.matchFiles(family)
	slog.Debug("font search", "family", family, "matches", len(matches))

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			slog.Debug("skipping unparseable font", "path", path, "error", err)
			continue
		}
		slog.Debug("selected font", "family", family, "path", path)
		return &Font{Family: family, Path: path, sfnt: parsed}, nil
	}

	// Fallback: embedded Go Regular.
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %q and embedded fallback failed: %v", ErrFontNotFound, family, err)
	}
	slog.Debug("using embedded fallback font", "family", family)
	return &Font{Family: family, sfnt: parsed}, nil
}

// matchFiles returns candidate paths for the family, best first.
func (ix *Index) matchFiles(family string) []string {
	variations := nameVariations(family)

	var matches []string
	for _, path := range ix.files {
		base := strings.ToLower(filepath.Base(path))
		for _, v := range variations {
			if strings.Contains(base, v) {
				matches = append(matches, path)
				break
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		bi := strings.ToLower(filepath.Base(matches[i]))
		bj := strings.ToLower(filepath.Base(matches[j]))
		si, sj := scoreFile(bi, family), scoreFile(bj, family)
		if si != sj {
			return si > sj
		}
		if len(bi) != len(bj) {
			return len(bi) < len(bj)
		}
		return bi < bj
	})
	return matches
}

// nameVariations returns lowercase spellings a family name may take in
// a filename: as-is, spaces removed/replaced, first word only.
func nameVariations(family string) []string {
	f := strings.ToLower(family)
	set := map[string]bool{}
	var out []string
	add := func(s string) {
		if s != "" && !set[s] {
			set[s] = true
			out = append(out, s)
		}
	}
	add(f)
	add(strings.ReplaceAll(f, " ", ""))
	add(strings.ReplaceAll(f, " ", "_"))
	add(strings.ReplaceAll(f, " ", "-"))
	if fields := strings.Fields(f); len(fields) > 0 {
		add(fields[0])
	}
	return out
}

// scoreFile ranks a candidate filename for a family request. Exact
// filename matches outrank everything; plain cuts beat stylized ones;
// longer names lose, since they are usually variants.
func scoreFile(base, family string) int {
	f := strings.ToLower(family)
	if base == f+".ttf" || base == f+".otf" {
		return 1000
	}

	score := 0
	for i, style := range stylePriorities {
		if strings.Contains(base, style) {
			score += 100 - i
			break
		}
	}
	for _, style := range variantStyles {
		if strings.Contains(base, style) {
			score -= 50
		}
	}
	return score - len(base)
}
