package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ironsheep/ball-tracker/internal/config"
	"github.com/ironsheep/ball-tracker/internal/logging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogMode   = "log-mode"
	flagCamera    = "camera"
	flagFiles     = "files"
	flagScale     = "scale"
	flagBackend   = "backend"
	flagNoWindow  = "no-window"
	flagOutputDir = "output-dir"
	flagEvery     = "every"
	flagAnnotated = "annotated"
	flagMask      = "mask"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "ball-tracker %s\n", Version)
		fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
	}

	app := &cli.App{
		Name:    "ball-tracker",
		Usage:   "find a colored ball in camera frames and report its position",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  flagLogMode,
				Usage: "log format: development or production",
			},
			&cli.IntFlag{
				Name:  flagCamera,
				Usage: "capture device `NUMBER`",
			},
			&cli.StringFlag{
				Name:  flagFiles,
				Usage: "replay still frames from a directory or `GLOB` instead of a camera",
			},
			&cli.Float64Flag{
				Name:  flagScale,
				Usage: "resize frames by `FACTOR` before detection",
			},
			&cli.StringFlag{
				Name:  flagBackend,
				Usage: "circle locator: hough or opencv",
			},
		},
		Action: trackAction,
		Commands: []*cli.Command{
			{
				Name:   "track",
				Usage:  "run the detector on every frame until Esc, end of stream or interrupt",
				Action: trackAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagNoWindow,
						Usage: "do not open the preview windows",
					},
					&cli.StringFlag{
						Name:  flagOutputDir,
						Usage: "write annotated frames and masks to `DIR`",
					},
					&cli.IntFlag{
						Name:  flagEvery,
						Usage: "write every `N`th frame to the output directory",
					},
				},
			},
			{
				Name:      "detect",
				Usage:     "run the detector once on an image file",
				ArgsUsage: "IMAGE",
				Action:    detectAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagAnnotated,
						Usage: "write the annotated frame to `FILE` (PNG)",
					},
					&cli.StringFlag{
						Name:  flagMask,
						Usage: "write the refined mask to `FILE` (PNG)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "serve the image analysis tools over JSON-RPC on stdin/stdout",
				Action: serveAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.RunContext(ctx, os.Args)
	stop()

	// Commands log their own failures once setup has built a logger; what
	// gets here failed earlier, while loading or validating the config.
	if err != nil {
		logger := zap.Must(logging.New("error", "development"))
		logger.Fatal("ball-tracker failed", zap.Error(err))
	}
}

// loadConfig reads the configuration file and environment, then applies the
// command-line overrides. Flags win over everything else.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return nil, err
	}

	if c.IsSet(flagLogLevel) {
		cfg.Log.Level = c.String(flagLogLevel)
	}
	if c.IsSet(flagLogMode) {
		cfg.Log.Mode = c.String(flagLogMode)
	}
	if c.IsSet(flagCamera) {
		cfg.Source.Camera = c.Int(flagCamera)
	}
	if c.IsSet(flagFiles) {
		cfg.Source.Files = c.String(flagFiles)
	}
	if c.IsSet(flagScale) {
		cfg.Source.Scale = c.Float64(flagScale)
	}
	if c.IsSet(flagBackend) {
		cfg.Locate.Backend = c.String(flagBackend)
	}
	if c.IsSet(flagNoWindow) {
		cfg.Display.Window = !c.Bool(flagNoWindow)
	}
	if c.IsSet(flagOutputDir) {
		cfg.Display.OutputDir = c.String(flagOutputDir)
	}
	if c.IsSet(flagEvery) {
		cfg.Display.Every = c.Int(flagEvery)
	}
	return cfg, nil
}

// setup loads and validates the configuration and builds the logger.
func setup(c *cli.Context) (*config.Config, *config.Settings, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}
	settings, err := cfg.Resolve()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Mode)
	if err != nil {
		return nil, nil, nil, err
	}
	logger = logger.With(zap.String("version", Version))
	return cfg, settings, logger, nil
}
