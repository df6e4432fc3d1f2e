package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ironsheep/ball-tracker/internal/config"
	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/video"
)

func TestBuildPipeline_Defaults(t *testing.T) {
	settings, err := config.Default().Resolve()
	require.NoError(t, err)

	p, err := buildPipeline(settings, 1)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBuildPipeline_UnknownBackend(t *testing.T) {
	settings, err := config.Default().Resolve()
	require.NoError(t, err)
	settings.Backend = "tensorflow"

	_, err = buildPipeline(settings, 1)
	assert.ErrorIs(t, err, errdefs.ErrInvalidConfiguration)
}

func TestOpenSource_Files(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	require.NoError(t, imgio.Save(filepath.Join(dir, "frame_0001.png"), img, imgio.PNGEncoder()))

	src, err := openSource(config.SourceConfig{Files: dir})
	require.NoError(t, err)
	defer src.Close()

	_, ok := src.(*video.FileSource)
	require.True(t, ok, "files should open a FileSource, got %T", src)

	frame, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, frame.Bounds().Dx())

	_, err = src.Next(context.Background())
	assert.ErrorIs(t, err, errdefs.ErrEndOfStream)
}

func TestOpenSource_MissingFiles(t *testing.T) {
	_, err := openSource(config.SourceConfig{Files: filepath.Join(t.TempDir(), "*.png")})
	assert.ErrorIs(t, err, errdefs.ErrSourceUnavailable)
}

func TestFailed_LogsAndExits(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	assert.NoError(t, failed(logger, nil))
	assert.Zero(t, logs.Len())

	err := failed(logger, errors.New("camera unplugged"))
	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())
	assert.Empty(t, err.Error(), "the logger carries the diagnostic")

	entries := logs.FilterMessage("command failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "camera unplugged", entries[0].ContextMap()["error"])
}
