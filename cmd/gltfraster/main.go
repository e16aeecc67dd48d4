// gltfraster renders one or more glTF/GLB assets to PNG images from the
// command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	gltfloader "github.com/taigrr/gltfraster/pkg/gltf"
	"github.com/taigrr/gltfraster/pkg/math3d"
	"github.com/taigrr/gltfraster/pkg/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// vec3Flag is a pflag.Value for "x,y,z" vector flags. It tracks whether the
// flag was ever set so an absent flag can be told apart from an explicit
// (0,0,0).
type vec3Flag struct {
	v   math3d.Vec3
	set bool
}

func (f *vec3Flag) String() string {
	if !f.set {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v.X, f.v.Y, f.v.Z)
}

func (f *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected \"x,y,z\", got %q", s)
	}
	var comps [3]float64
	for i, p := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("invalid component %q: %w", p, err)
		}
		comps[i] = val
	}
	f.v = math3d.V3(comps[0], comps[1], comps[2])
	f.set = true
	return nil
}

func (f *vec3Flag) Type() string { return "x,y,z" }

type cliOptions struct {
	out                      string
	width, height            int
	fov, ambient             float64
	light, cam, look, bg     vec3Flag
	noCull, noGamma, verbose bool
	grid                     bool
}

func newRootCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "gltfraster MODEL [MODEL...]",
		Short: "Render glTF/GLB assets to PNG images",
		Long: "Render one or more glTF/GLB assets to PNG images.\n" +
			"MODEL may be a local path or an http(s):// URL. With more than one\n" +
			"MODEL, --out names an output directory and renders run concurrently\n" +
			"across a bounded worker pool.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck
			return runModels(cmd.Context(), logger, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.out, "out", "out.png", "output PNG path, or output directory when multiple models are given")
	flags.IntVar(&opts.width, "w", 800, "output width in pixels")
	flags.IntVar(&opts.height, "h", 600, "output height in pixels")
	flags.Float64Var(&opts.fov, "fov", 60, "vertical field of view in degrees")
	flags.Float64Var(&opts.ambient, "ambient", 0.15, "ambient light term, 0..1")
	flags.Var(&opts.light, "light", "directional light, \"x,y,z\"")
	flags.Var(&opts.cam, "cam", "explicit camera position, \"x,y,z\"")
	flags.Var(&opts.look, "look", "explicit look-at target, \"x,y,z\"")
	flags.Var(&opts.bg, "background", "background color, \"r,g,b\" linear 0..1 (default transparent)")
	flags.BoolVar(&opts.noCull, "no-cull", false, "disable back-face culling")
	flags.BoolVar(&opts.noGamma, "no-gamma", false, "disable sRGB gamma encoding")
	flags.BoolVar(&opts.grid, "grid", false, "overlay a reference grid sized from the scene")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable debug-level logging")

	return cmd
}

// buildLogger constructs the console-encoded, colorized logger the ambient
// logging contract calls for: Info level normally, Debug under --verbose.
func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func runModels(ctx context.Context, logger *zap.Logger, models []string, opts cliOptions) error {
	if len(models) == 1 {
		return renderOne(ctx, logger, models[0], opts, opts.out)
	}
	return renderBatch(ctx, logger, models, opts)
}

// renderBatch fans a multi-model invocation out across a bounded worker
// pool, one goroutine per model, joined with a sync.WaitGroup. Each render
// owns its own bitmap, depth buffer, and draw-call set, so the only shared
// state across workers is the error-collecting slice, guarded by mu.
func renderBatch(ctx context.Context, logger *zap.Logger, models []string, opts cliOptions) error {
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", opts.out, err)
	}

	workers := runtime.NumCPU()
	if workers > len(models) {
		workers = len(models)
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for _, model := range models {
		wg.Add(1)
		sem <- struct{}{}
		go func(model string) {
			defer wg.Done()
			defer func() { <-sem }()

			base := filepath.Base(model)
			base = strings.TrimSuffix(base, filepath.Ext(base))
			outPath := filepath.Join(opts.out, base+".png")

			if err := renderOne(ctx, logger, model, opts, outPath); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", model, err))
				mu.Unlock()
			}
		}(model)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func renderOne(ctx context.Context, logger *zap.Logger, modelPath string, o cliOptions, outPath string) error {
	logger.Info("loading model", zap.String("path", modelPath))
	calls, err := gltfloader.LoadContext(ctx, modelPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", modelPath, err)
	}
	logger.Debug("loaded draw calls", zap.String("path", modelPath), zap.Int("count", len(calls)))

	result, err := render.Render(calls, buildRenderOptions(o))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := result.Bitmap.EncodePNG(f); err != nil {
		return fmt.Errorf("encode %s: %w", outPath, err)
	}

	logger.Info("wrote image",
		zap.String("path", outPath),
		zap.Int("width", result.Bitmap.Width),
		zap.Int("height", result.Bitmap.Height),
	)
	return nil
}

func buildRenderOptions(o cliOptions) render.RenderOptions {
	opts := render.RenderOptions{
		Width:  o.width,
		Height: o.height,
		Grid:   o.grid,
	}

	fov := o.fov
	opts.FOVDeg = &fov

	ambient := o.ambient
	opts.Ambient = &ambient

	cull := !o.noCull
	opts.Cull = &cull

	gamma := !o.noGamma
	opts.Gamma = &gamma

	if o.light.set {
		v := o.light.v
		opts.LightDir = &v
	}
	if o.cam.set {
		v := o.cam.v
		opts.CamPos = &v
	}
	if o.look.set {
		v := o.look.v
		opts.LookAt = &v
	}
	if o.bg.set {
		bg := [3]float64{o.bg.v.X, o.bg.v.Y, o.bg.v.Z}
		opts.Background = &bg
	}

	return opts
}
