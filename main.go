package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/config"
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/output"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// cliOptions holds flags that are not part of the loaded configuration
type cliOptions struct {
	list bool
	help bool
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseFlags(os.Args[1:], &cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	if opts.help {
		printHelp(os.Stdout)
		return
	}
	if opts.list {
		printScenes(os.Stdout)
		return
	}

	if err := run(context.Background(), cfg, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// flagSet binds command line flags to cfg and opts. Schedule and format are
// returned as raw strings and parsed after the flags are read.
func flagSet(cfg *config.Config, opts *cliOptions) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene to render (see -list)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels (0 = scene default)")
	fs.IntVar(&cfg.Samples, "spp", cfg.Samples, "Samples per pixel (0 = scene default)")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "Maximum ray bounces (0 = scene default)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of render workers (0 = CPU count)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = seed from the clock)")
	schedule := fs.String("schedule", cfg.Schedule.String(), "Row scheduling: 'static' or 'queue'")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory")
	format := fs.String("format", string(cfg.Format), "Output format: ppm, ppm-binary, png, jpeg, bmp, tiff")
	fs.IntVar(&cfg.ThumbSize, "thumb", cfg.ThumbSize, "Also write a PNG thumbnail of this size (0 = off)")
	fs.BoolVar(&opts.list, "list", false, "List available scenes")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	return fs, schedule, format
}

// parseFlags applies command line flags over cfg
func parseFlags(args []string, cfg *config.Config) (cliOptions, error) {
	var opts cliOptions
	fs, schedule, format := flagSet(cfg, &opts)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			opts.help = true
			return opts, nil
		}
		return opts, err
	}

	var err error
	if cfg.Schedule, err = renderer.ParseSchedule(*schedule); err != nil {
		return opts, err
	}
	if cfg.Format, err = output.ParseFormat(*format); err != nil {
		return opts, err
	}
	return opts, cfg.Validate()
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Tiled Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	cfg := config.Default()
	fs, _, _ := flagSet(&cfg, &cliOptions{})
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	printScenes(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to <out>/<scene>_<timestamp>.<format>")
	fmt.Fprintf(w, "Settings can also be given as %s* environment variables or in .env\n", config.EnvPrefix)
}

func printScenes(w io.Writer) {
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-8s - %s\n", info.ID, info.Description)
	}
}

// createScene builds the named scene with configuration overrides applied
func createScene(cfg config.Config) (*scene.Scene, error) {
	s, err := scene.NewScene(cfg.Scene)
	if err != nil {
		return nil, err
	}
	s.Camera = cfg.ApplyCamera(s.Camera)
	return s, nil
}

// createSink returns the file sink plus an S3 sink when a bucket is set
func createSink(cfg config.Config) (output.MultiSink, error) {
	sinks := output.MultiSink{output.NewFileSink(cfg.OutputDir, cfg.Format, cfg.ThumbSize)}

	if cfg.S3Enabled() {
		client, err := output.NewS3Client(cfg.S3())
		if err != nil {
			return nil, err
		}
		s3Sink := output.NewS3Sink(client, cfg.S3Bucket, cfg.S3Prefix, cfg.Format).WithTimeout(cfg.S3UploadTimeout)
		sinks = append(sinks, s3Sink)
	}
	return sinks, nil
}

// outputName returns the base name for the rendered image
func outputName(cfg config.Config, now time.Time) string {
	if cfg.OutputName != "" {
		return cfg.OutputName
	}
	return fmt.Sprintf("%s_%s", cfg.Scene, now.Format("20060102_150405"))
}

func run(ctx context.Context, cfg config.Config, logger core.Logger) error {
	fmt.Println("Starting Tiled Path Tracer...")

	selectedScene, err := createScene(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Using %s scene...\n", selectedScene.Name)

	sink, err := createSink(cfg)
	if err != nil {
		return err
	}

	camera := renderer.NewCamera(selectedScene.Camera)
	tr := renderer.NewTiledRenderer(camera, cfg.ScheduleConfig(), logger)
	frame, stats := tr.Render(selectedScene.World)

	fmt.Printf("Render completed in %v\n", stats.Elapsed)
	fmt.Printf("Image: %dx%d, %d samples per pixel, %d workers (%s), seed %d\n",
		frame.Width, frame.Height, stats.SamplesPerPixel, stats.Workers, stats.Schedule, stats.Seed)
	fmt.Printf("Throughput: %.0f samples/sec\n", stats.SamplesPerSecond())

	name := outputName(cfg, time.Now())
	if err := sink.Write(ctx, name, frame); err != nil {
		return fmt.Errorf("failed to save render: %w", err)
	}

	fmt.Printf("Render saved as %s\n", sink[0].(*output.FileSink).Path(name))
	return nil
}
