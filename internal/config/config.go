// Package config holds the immutable render options shared by every
// processed image, environment overrides, and logger construction.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// ErrInvalidConfig is returned when option values are out of range.
// Validation happens once, before any image is processed, and is fatal
// for the whole run.
var ErrInvalidConfig = errors.New("config: invalid options")

// Options bundles the render configuration. Built once per run and
// shared read-only across all processed images.
type Options struct {
	LogoPath   string `validate:"omitempty,file"`
	Text       string
	FontFamily string `validate:"required"`

	// Transparency is the bar opacity in percent: 0 leaves the bar
	// invisible, 100 paints it opaque white.
	Transparency int `validate:"gte=0,lte=100"`

	// Blur controls the opacity of the blurred underlay in percent;
	// BlurRadius drives the Gaussian kernel.
	Blur       int `validate:"gte=0,lte=100"`
	BlurRadius int `validate:"gte=0"`

	// Crop enables normalization to the 1920x1080 frame.
	Crop bool

	// Quality applies to JPEG and WebP output.
	Quality int `validate:"gte=1,lte=100"`

	Debug bool
}

// Defaults returns the documented option defaults.
func Defaults() Options {
	return Options{
		FontFamily:   "Arial",
		Transparency: 20,
		Blur:         0,
		BlurRadius:   5,
		Crop:         true,
		Quality:      90,
	}
}

var validate = validator.New()

// Validate checks all option ranges. Returned errors wrap
// ErrInvalidConfig.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, describeFieldError(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "Transparency":
		return "transparency must be between 0 and 100"
	case "Blur":
		return "blur must be between 0 and 100"
	case "BlurRadius":
		return "blur radius must be non-negative"
	case "Quality":
		return "quality must be between 1 and 100"
	case "LogoPath":
		return fmt.Sprintf("logo file not found: %v", fe.Value())
	case "FontFamily":
		return "font family must not be empty"
	default:
		return fe.Error()
	}
}

// Env carries environment overrides, merged under the CLI flags.
type Env struct {
	Debug     bool     `env:"IMAGE_TITLER_DEBUG"`
	FontDirs  []string `env:"IMAGE_TITLER_FONT_DIRS"`
	LogFormat string   `env:"IMAGE_TITLER_LOG_FORMAT, default=text"`
}

// LoadEnv reads the IMAGE_TITLER_* environment variables.
func LoadEnv(ctx context.Context) (Env, error) {
	var e Env
	if err := envconfig.Process(ctx, &e); err != nil {
		return Env{}, fmt.Errorf("config: %w", err)
	}
	return e, nil
}

// NewLogger builds the process logger. Debug mode lowers the level so
// the font-search and text-layout diagnostics become visible; the JSON
// format is for capturing batch runs.
func NewLogger(e Env, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || e.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(e.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
