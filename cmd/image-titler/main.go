package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/pkg/fontfind"
	"github.com/menta2k/image-titler/pkg/namer"
	"github.com/menta2k/image-titler/pkg/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := config.Defaults()
	var noCrop bool

	flag.StringVar(&opts.LogoPath, "logo", "", "path to logo image (PNG with alpha recommended); omitted = no logo")
	flag.StringVar(&opts.Text, "text", "", "text to overlay on the bar; omitted = no text")
	flag.StringVar(&opts.FontFamily, "font", opts.FontFamily, "font family for the overlay text")
	flag.IntVar(&opts.Transparency, "transparency", opts.Transparency, "bar opacity in percent (0-100)")
	flag.IntVar(&opts.Blur, "blur", opts.Blur, "blurred underlay opacity in percent (0-100)")
	flag.IntVar(&opts.BlurRadius, "blur-radius", opts.BlurRadius, "gaussian blur radius in pixels")
	flag.IntVar(&opts.Quality, "quality", opts.Quality, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&noCrop, "no-crop", false, "disable automatic cropping to 1920x1080")
	flag.BoolVar(&opts.Debug, "debug", false, "enable debug output")
	flag.Usage = usage
	flag.Parse()
	opts.Crop = !noCrop

	env, err := config.LoadEnv(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	logger := config.NewLogger(env, opts.Debug)
	slog.SetDefault(logger)

	inputs := flag.Args()
	if len(inputs) == 0 {
		usage()
		return 2
	}
	for _, in := range inputs {
		if _, err := os.Stat(in); err != nil {
			fmt.Fprintf(os.Stderr, "Error: input not found: %s\n", in)
			return 2
		}
	}

	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	fonts := fontfind.NewIndex(env.FontDirs...)
	runner := pipeline.NewRunner(opts, fonts, promptChooser(os.Stdin, os.Stdout), logger)
	results := runner.Run(inputs)

	for _, res := range results {
		switch res.Kind {
		case pipeline.OK:
			fmt.Printf("Processed %s -> %s\n", res.Path, res.Output)
		case pipeline.Skipped:
			fmt.Printf("Skipping %s\n", res.Path)
		default:
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", res.Path, res.Err)
		}
	}

	s := pipeline.Summarize(results)
	if s.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d images failed\n", s.Failed, len(results))
		return 1
	}
	return 0
}

// promptChooser asks interactively what to do with an existing output
// file: cancel, overwrite, or rename to a numbered variant.
func promptChooser(in *os.File, out *os.File) namer.Chooser {
	reader := bufio.NewReader(in)
	return namer.ChooserFunc(func(path string) (namer.Choice, error) {
		for {
			fmt.Fprintf(out, "\nFile %s already exists. Choose action:\n"+
				"[1] Cancel\n[2] Overwrite\n[3] Use new name\n"+
				"Enter choice (1-3): ", path)

			line, err := reader.ReadString('\n')
			if err != nil {
				return 0, fmt.Errorf("read choice: %w", err)
			}
			switch strings.TrimSpace(line) {
			case "1":
				return namer.Cancel, nil
			case "2":
				return namer.Overwrite, nil
			case "3":
				return namer.Rename, nil
			}
		}
	})
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] IMAGE [IMAGE...]\n\n"+
		"Add logo and text overlay to images, optimized for video\n"+
		"conferencing backgrounds. Output is written next to each input\n"+
		"with a _labeled suffix; exit code is 0 when every image\n"+
		"succeeded and 1 when any failed.\n\nFlags:\n", name)
	flag.PrintDefaults()
}
