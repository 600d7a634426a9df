package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene      string
	config     string
	resolution string
	format     string
	out        string
	samples    int
	shadowRays int
	workers    int
	seed       int64
	debug      bool
	list       bool
	mesh       string
	meshSize   float64

	// flags given explicitly, overriding the settings file
	set map[string]bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.scene, "scene", "cornell", "Built-in scene to render (see -list)")
	fs.StringVar(&opts.config, "config", "", "TOML render settings file")
	fs.StringVar(&opts.resolution, "resolution", "480p", "Output size: thumbnail, 480p, 720p or 1080p")
	fs.StringVar(&opts.format, "format", "png", "Output format: png or webp")
	fs.StringVar(&opts.out, "out", "output", "Output directory")
	fs.IntVar(&opts.samples, "samples", 0, "Subsamples per pixel (overrides the settings file)")
	fs.IntVar(&opts.shadowRays, "shadow-rays", 0, "Shadow rays per emitter (overrides the settings file)")
	fs.IntVar(&opts.workers, "workers", 0, "Parallel row workers, 0 for one per CPU (overrides the settings file)")
	fs.Int64Var(&opts.seed, "seed", 0, "Base random seed (overrides the settings file)")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.list, "list", false, "List the built-in scenes and exit")
	fs.StringVar(&opts.mesh, "mesh", "", "PLY model to place at the scene's look-at point")
	fs.Float64Var(&opts.meshSize, "mesh-size", 0.6, "Largest side of the -mesh model after fitting")

	fs.Usage = func() {
		fmt.Fprintln(output, "Path Tracer")
		fmt.Fprintln(output, "Usage: pathtracer [options]")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Output will be saved to <out>/<scene>/render_<timestamp>.<format>")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	opts.format = strings.ToLower(opts.format)
	if opts.format != "png" && opts.format != "webp" {
		return opts, fmt.Errorf("unknown output format %q (want png or webp)", opts.format)
	}
	return opts, nil
}

// loadSettings reads the settings file, if any, and applies flag overrides
func loadSettings(opts options) (core.RenderSettings, error) {
	settings := core.DefaultRenderSettings()
	if opts.config != "" {
		loaded, err := core.LoadRenderSettings(opts.config)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}

	if opts.set["samples"] {
		settings.SubSamples = opts.samples
	}
	if opts.set["shadow-rays"] {
		settings.ShadowRays = opts.shadowRays
	}
	if opts.set["workers"] {
		settings.Workers = opts.workers
	}
	if opts.set["seed"] {
		settings.Seed = opts.seed
	}

	return settings, settings.Validate()
}

// createScene builds the named built-in scene
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	return scene.Load(name)
}

func outputPath(dir, sceneName, format string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join(dir, sceneName, fmt.Sprintf("render_%s.%s", timestamp, format))
}

// writeImage encodes img to path, creating parent directories as needed
func writeImage(path, format string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	switch format {
	case "webp":
		err = nativewebp.Encode(file, img, nil)
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("error saving %s: %w", strings.ToUpper(format), err)
	}
	return file.Close()
}

func run(args []string, stdout io.Writer, logger *core.DefaultLogger) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	logger.SetDebug(opts.debug)

	if opts.list {
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(stdout, "  %-16s %s\n", info.ID, info.Description)
		}
		return nil
	}

	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}
	logger.Debugf("settings: %+v", settings)

	res, err := renderer.ParseResolution(opts.resolution)
	if err != nil {
		return err
	}

	selectedScene, err := createScene(opts.scene)
	if err != nil {
		return err
	}
	if opts.mesh != "" {
		gray := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
		if _, err := selectedScene.AddPLYMesh(opts.mesh, selectedScene.View.LookAt, opts.meshSize, gray); err != nil {
			return err
		}
		logger.Debugf("added mesh %s", opts.mesh)
	}
	logger.Infof("scene %q: %d primitives, %d triangles, %d emitters",
		selectedScene.Name, selectedScene.GetPrimitiveCount(), selectedScene.GetTriangleCount(), len(selectedScene.Emitters()))

	r, err := renderer.NewRenderer(settings, logger)
	if err != nil {
		return err
	}
	r.Attach(selectedScene)
	camera := renderer.NewPinholeCamera(renderer.ConfigFromView(selectedScene.View, res))
	r.SetCamera(camera)

	film := renderer.NewFilm(camera.Resolution())
	stats, err := r.Render(film)
	if err != nil {
		return err
	}

	img := film.Image()
	filename := outputPath(opts.out, selectedScene.Name, opts.format, time.Now())
	if err := writeImage(filename, opts.format, img); err != nil {
		return err
	}

	logger.Infof("render %s saved as %s (%.1f samples per pixel, average luminance %.3f)",
		stats.RenderID, filename, stats.AverageSamples, renderer.CalculateAverageLuminance(img))
	return nil
}

func main() {
	logger := core.NewDefaultLogger("pathtracer", false)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
