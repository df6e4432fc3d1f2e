package main

import (
	"fmt"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/ball-tracker/internal/annotate"
	"github.com/ironsheep/ball-tracker/internal/config"
	"github.com/ironsheep/ball-tracker/internal/detection"
	"github.com/ironsheep/ball-tracker/internal/imaging"
	"github.com/ironsheep/ball-tracker/internal/logging"
	"github.com/ironsheep/ball-tracker/internal/server"
	"github.com/ironsheep/ball-tracker/internal/tracker"
	"github.com/ironsheep/ball-tracker/internal/video"
)

func trackAction(c *cli.Context) error {
	cfg, settings, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)
	return failed(logger, track(c, cfg, settings, logger))
}

func track(c *cli.Context, cfg *config.Config, settings *config.Settings, logger *zap.Logger) error {
	pipeline, err := buildPipeline(settings, cfg.Source.Scale)
	if err != nil {
		return err
	}

	src, err := openSource(cfg.Source)
	if err != nil {
		return err
	}

	sink := tracker.MultiSink{tracker.NewReporter(os.Stdout)}
	var cont tracker.ContinueFunc
	closeAll := func() error {
		return multierr.Combine(src.Close(), sink.Close())
	}

	if cfg.Display.Window {
		window, err := video.NewWindow("Frame", "Mask", settings.Style)
		if err != nil {
			return multierr.Append(err, closeAll())
		}
		sink = append(sink, window)
		cont = window.Continue
	}
	if cfg.Display.OutputDir != "" {
		dir, err := video.NewDirSink(cfg.Display.OutputDir, cfg.Display.Every, settings.Style)
		if err != nil {
			return multierr.Append(err, closeAll())
		}
		sink = append(sink, dir)
	}

	loop := tracker.NewLoop(pipeline, logger)
	summary := loop.Run(c.Context, src, sink, cont)

	if err := closeAll(); err != nil {
		logger.Warn("closing source and sinks", zap.Error(err))
	}

	if summary.Reason == tracker.Failed {
		return fmt.Errorf("run %s failed after %d frames: %w", summary.RunID, summary.Frames, summary.Err)
	}
	return nil
}

func detectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("detect needs exactly one IMAGE argument", 2)
	}

	cfg, settings, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)
	return failed(logger, detect(c, cfg, settings, logger))
}

func detect(c *cli.Context, cfg *config.Config, settings *config.Settings, logger *zap.Logger) error {
	pipeline, err := buildPipeline(settings, cfg.Source.Scale)
	if err != nil {
		return err
	}

	img, err := imaging.Open(c.Args().First())
	if err != nil {
		return err
	}

	frame, result, err := pipeline.Process(img)
	if err != nil {
		return err
	}
	logger.Debug("image processed",
		zap.String("path", c.Args().First()),
		zap.Int("circles", len(result.Circles)),
		zap.Int("mask_pixels", result.Mask.Count()),
	)

	if err := tracker.NewReporter(os.Stdout).Show(frame, result); err != nil {
		return err
	}

	if path := c.String(flagAnnotated); path != "" {
		if err := imgio.Save(path, annotate.Annotate(frame, result.Circles, settings.Style), imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("write annotated frame: %w", err)
		}
	}
	if path := c.String(flagMask); path != "" && !result.Mask.ZeroArea() {
		if err := imgio.Save(path, result.Mask.Gray, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("write mask: %w", err)
		}
	}
	return nil
}

func serveAction(c *cli.Context) error {
	_, settings, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	logger.Info("tool server starting",
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	srv := server.New(
		server.WithLogger(logger),
		server.WithSettings(settings),
		server.WithVersion(Version),
	)
	return failed(logger, srv.Run(c.Context, os.Stdin, os.Stdout))
}

// failed logs err and turns it into exit status 1. The exit message is
// empty so the diagnostic is only written once, by the logger.
func failed(logger *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	logger.Error("command failed", zap.Error(err))
	return cli.Exit("", 1)
}

// buildPipeline wires the segmenter, refiner and circle locator described by
// settings.
func buildPipeline(settings *config.Settings, scale float64) (*tracker.Pipeline, error) {
	segmenter, err := imaging.NewSegmenter(settings.Bands...)
	if err != nil {
		return nil, err
	}
	refiner, err := imaging.NewRefiner(settings.Refine)
	if err != nil {
		return nil, err
	}
	locator, err := detection.NewBackend(settings.Backend, settings.Locate)
	if err != nil {
		return nil, err
	}
	return tracker.NewPipeline(segmenter, refiner, locator, scale)
}

// openSource opens the replay files when configured, the camera otherwise.
func openSource(cfg config.SourceConfig) (tracker.Source, error) {
	if cfg.Files != "" {
		return video.NewFileSource(cfg.Files)
	}
	return video.OpenCamera(cfg.Camera)
}
